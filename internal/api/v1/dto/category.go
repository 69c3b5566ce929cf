package dto

import "time"

type CategoryCreateDTO struct {
	LanguageCode string `json:"language_code" validate:"required" minLength:"2" doc:"Language the category belongs to"`
	Name         string `json:"name" validate:"required,max=50" minLength:"1" maxLength:"50"`
}

type CategoryResponseDTO struct {
	CategoryID   string    `json:"category_id"`
	LanguageCode string    `json:"language_code"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}
