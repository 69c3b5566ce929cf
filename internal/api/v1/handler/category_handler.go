package handler

import (
	"context"

	"github.com/fadonmez/backend/internal/api/v1/dto"
	"github.com/fadonmez/backend/internal/api/v1/operation"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category-related endpoints
type CategoryHandler struct {
	categoryService service.CategoryService
	validate        *validator.Validate
	logger          zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, validate *validator.Validate, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        validate,
		logger:          logger,
	}
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, input *operation.CreateCategoryInput) (*operation.CreateCategoryOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&input.Body); err != nil {
		return nil, huma.Error400BadRequest("Validation failed: " + err.Error())
	}

	c, err := h.categoryService.Create(ctx, userID, input.Body.LanguageCode, input.Body.Name)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to create category")
	}
	return &operation.CreateCategoryOutput{Body: categoryDTO(c)}, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, input *operation.ListCategoriesInput) (*operation.ListCategoriesOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := h.categoryService.List(ctx, userID, input.Language)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list categories")
	}
	out := make([]dto.CategoryResponseDTO, 0, len(categories))
	for i := range categories {
		out = append(out, categoryDTO(&categories[i]))
	}
	return &operation.ListCategoriesOutput{Body: out}, nil
}

// DeleteCategory removes a category and the words tracked in it
func (h *CategoryHandler) DeleteCategory(ctx context.Context, input *operation.DeleteCategoryInput) (*operation.DeleteCategoryOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.categoryService.Delete(ctx, userID, input.CategoryID); err != nil {
		return nil, toHumaError(h.logger, err, "Failed to delete category")
	}
	return &operation.DeleteCategoryOutput{}, nil
}

func categoryDTO(c *model.Category) dto.CategoryResponseDTO {
	return dto.CategoryResponseDTO{
		CategoryID:   c.CategoryID,
		LanguageCode: c.LanguageCode,
		Name:         c.Name,
		CreatedAt:    c.CreatedAt,
	}
}
