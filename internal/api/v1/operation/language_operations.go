package operation

import "github.com/fadonmez/backend/internal/api/v1/dto"

type AddLanguageInput struct {
	Body dto.LanguageAddDTO `json:"body"`
}

type AddLanguageOutput struct {
	Body dto.UserLanguageResponseDTO `json:"body"`
}

type ListLanguagesInput struct {
	// No input needed - user ID comes from auth context
}

type ListLanguagesOutput struct {
	Body []dto.UserLanguageResponseDTO `json:"body"`
}
