package operation

import "github.com/fadonmez/backend/internal/api/v1/dto"

// User Operations

type CreateUserInput struct {
	Body dto.UserCreateDTO `json:"body"`
}

type CreateUserOutput struct {
	Body dto.UserResponseDTO `json:"body"`
}

type GetUserInput struct {
	// No input needed - user ID comes from auth context
}

type GetUserOutput struct {
	Body dto.UserResponseDTO `json:"body"`
}
