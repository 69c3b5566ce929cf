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

// LanguageHandler handles the languages a user learns
type LanguageHandler struct {
	languageService service.LanguageService
	validate        *validator.Validate
	logger          zerolog.Logger
}

func NewLanguageHandler(languageService service.LanguageService, validate *validator.Validate, logger zerolog.Logger) *LanguageHandler {
	return &LanguageHandler{
		languageService: languageService,
		validate:        validate,
		logger:          logger,
	}
}

func (h *LanguageHandler) AddLanguage(ctx context.Context, input *operation.AddLanguageInput) (*operation.AddLanguageOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&input.Body); err != nil {
		return nil, huma.Error400BadRequest("Validation failed: " + err.Error())
	}

	ul, err := h.languageService.Add(ctx, userID, input.Body.LanguageCode)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to add language")
	}
	return &operation.AddLanguageOutput{Body: languageDTO(ul)}, nil
}

func (h *LanguageHandler) ListLanguages(ctx context.Context, input *operation.ListLanguagesInput) (*operation.ListLanguagesOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	languages, err := h.languageService.List(ctx, userID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list languages")
	}
	out := make([]dto.UserLanguageResponseDTO, 0, len(languages))
	for i := range languages {
		out = append(out, languageDTO(&languages[i]))
	}
	return &operation.ListLanguagesOutput{Body: out}, nil
}

func languageDTO(ul *model.UserLanguage) dto.UserLanguageResponseDTO {
	return dto.UserLanguageResponseDTO{
		LanguageCode: ul.LanguageCode,
		IsDefault:    ul.IsDefault,
		CreatedAt:    ul.CreatedAt,
	}
}
