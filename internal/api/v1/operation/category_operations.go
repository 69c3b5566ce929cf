package operation

import "github.com/fadonmez/backend/internal/api/v1/dto"

type CreateCategoryInput struct {
	Body dto.CategoryCreateDTO `json:"body"`
}

type CreateCategoryOutput struct {
	Body dto.CategoryResponseDTO `json:"body"`
}

type ListCategoriesInput struct {
	Language string `query:"language" required:"true" doc:"Language code"`
}

type ListCategoriesOutput struct {
	Body []dto.CategoryResponseDTO `json:"body"`
}

type DeleteCategoryInput struct {
	CategoryID string `path:"categoryId" doc:"Category ID"`
}

type DeleteCategoryOutput struct {
	// 204 No Content
}
