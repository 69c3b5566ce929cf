package dto

import "time"

type UserCreateDTO struct {
	Name  string `json:"name,omitempty" validate:"max=100" maxLength:"100"`
	Email string `json:"email" validate:"required,email" format:"email"`
}

type UserResponseDTO struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Tier      string    `json:"tier" enum:"NORMAL,PREMIUM"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
