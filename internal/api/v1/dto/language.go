package dto

import "time"

type LanguageAddDTO struct {
	LanguageCode string `json:"language_code" validate:"required" minLength:"2" doc:"Language code to start learning"`
}

type UserLanguageResponseDTO struct {
	LanguageCode string    `json:"language_code"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}
