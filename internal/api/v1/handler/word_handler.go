package handler

import (
	"context"

	"github.com/fadonmez/backend/internal/api/v1/dto"
	"github.com/fadonmez/backend/internal/api/v1/operation"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/service"

	"github.com/rs/zerolog"
)

// WordHandler implements Huma-based word operations
type WordHandler struct {
	wordService  service.WordService
	queryService service.WordQueryService
	logger       zerolog.Logger
}

func NewWordHandler(wordService service.WordService, queryService service.WordQueryService, logger zerolog.Logger) *WordHandler {
	return &WordHandler{
		wordService:  wordService,
		queryService: queryService,
		logger:       logger,
	}
}

// ResolveWord adds a word to one of the user's categories
func (h *WordHandler) ResolveWord(ctx context.Context, input *operation.ResolveWordInput) (*operation.ResolveWordOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	res, err := h.wordService.Resolve(ctx, service.ResolveRequest{
		UserID:         userID,
		CategoryID:     input.Body.CategoryID,
		TargetLanguage: input.Body.TargetLanguage,
		NativeLanguage: input.Body.NativeLanguage,
		Word:           input.Body.Word,
	})
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to add word")
	}

	return &operation.ResolveWordOutput{
		Body: dto.ResolveWordResponseDTO{
			Status:     string(res.Status),
			WordID:     res.WordID,
			UserWordID: res.UserWordID,
		},
	}, nil
}

// DeleteUserWord removes a word from the user's list
func (h *WordHandler) DeleteUserWord(ctx context.Context, input *operation.DeleteUserWordInput) (*operation.DeleteUserWordOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.wordService.DeleteUserWord(ctx, userID, input.UserWordID); err != nil {
		return nil, toHumaError(h.logger, err, "Failed to delete word")
	}
	return &operation.DeleteUserWordOutput{}, nil
}

// TranslateWord returns a catalog translation, producing it if needed
func (h *WordHandler) TranslateWord(ctx context.Context, input *operation.TranslateWordInput) (*operation.TranslateWordOutput, error) {
	if _, err := getUserIDFromContext(ctx); err != nil {
		return nil, err
	}

	res, err := h.wordService.TranslateWord(ctx, service.TranslateRequest{
		Word:           input.Body.Word,
		TargetLanguage: input.Body.TargetLanguage,
		NativeLanguage: input.Body.NativeLanguage,
	})
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to translate word")
	}

	return &operation.TranslateWordOutput{
		Body: dto.TranslateWordResponseDTO{
			WordID:           res.WordID,
			WordName:         res.WordName,
			LanguageCode:     res.LanguageCode,
			TranslationValue: res.TranslationValue,
			Enriched:         res.Enriched,
		},
	}, nil
}

func (h *WordHandler) SampleWords(ctx context.Context, input *operation.SampleWordsInput) (*operation.SampleWordsOutput, error) {
	words, err := h.queryService.SampleWords(ctx, input.Language, input.Count)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to sample words")
	}
	out := make([]dto.WordResponseDTO, 0, len(words))
	for i := range words {
		out = append(out, wordDTO(&words[i]))
	}
	return &operation.SampleWordsOutput{Body: out}, nil
}

func (h *WordHandler) LookupWord(ctx context.Context, input *operation.LookupWordInput) (*operation.LookupWordOutput, error) {
	w, err := h.queryService.GetWordByName(ctx, input.Word, input.Language)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to look up word")
	}
	return &operation.LookupWordOutput{Body: wordDTO(w)}, nil
}

// ListMyWords returns every word the user tracks
func (h *WordHandler) ListMyWords(ctx context.Context, input *operation.ListMyWordsInput) (*operation.ListMyWordsOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	tracked, err := h.queryService.ListUserWords(ctx, userID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list words")
	}
	return &operation.ListMyWordsOutput{Body: trackedDTOs(tracked)}, nil
}

func (h *WordHandler) ListCategoryWords(ctx context.Context, input *operation.ListCategoryWordsInput) (*operation.ListCategoryWordsOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	tracked, err := h.queryService.ListCategoryWords(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list category words")
	}
	return &operation.ListCategoryWordsOutput{Body: trackedDTOs(tracked)}, nil
}

func wordDTO(w *model.Word) dto.WordResponseDTO {
	translations := make([]dto.TranslationDTO, 0, len(w.Translations))
	for _, t := range w.Translations {
		translations = append(translations, dto.TranslationDTO{
			LanguageCode:     t.LanguageCode,
			TranslationValue: t.TranslationValue,
		})
	}
	return dto.WordResponseDTO{
		WordID:       w.WordID,
		WordName:     w.WordName,
		LanguageCode: w.LanguageCode,
		Example:      w.Example,
		Level:        string(w.Level),
		Translations: translations,
		CreatedAt:    w.CreatedAt,
	}
}

func trackedDTOs(tracked []model.TrackedWord) []dto.TrackedWordResponseDTO {
	out := make([]dto.TrackedWordResponseDTO, 0, len(tracked))
	for i := range tracked {
		out = append(out, dto.TrackedWordResponseDTO{
			UserWordID: tracked[i].UserWordID,
			CategoryID: tracked[i].CategoryID,
			CreatedAt:  tracked[i].UserWord.CreatedAt,
			Word:       wordDTO(&tracked[i].Word),
		})
	}
	return out
}
