package service

import (
	"context"
	"math/rand/v2"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/rs/zerolog"
)

const maxSampleCount = 50

// WordQueryService reads the catalog and users' word lists.
type WordQueryService interface {
	// SampleWords returns up to count consecutive catalog words starting at a random offset.
	SampleWords(ctx context.Context, languageCode string, count int) ([]model.Word, error)
	GetWordByName(ctx context.Context, wordName, languageCode string) (*model.Word, error)
	ListUserWords(ctx context.Context, userID string) ([]model.TrackedWord, error)
	ListCategoryWords(ctx context.Context, userID, categoryID string) ([]model.TrackedWord, error)
}

// offset picks the sample window start in [0, n].
type wordQueryService struct {
	words      repository.WordRepository
	userWords  repository.UserWordRepository
	categories repository.CategoryRepository
	languages  lang.Table
	offset     func(n int) int
	logger     zerolog.Logger
}

// NewWordQueryService creates a new WordQueryService.
func NewWordQueryService(
	words repository.WordRepository,
	userWords repository.UserWordRepository,
	categories repository.CategoryRepository,
	languages lang.Table,
	logger zerolog.Logger,
) WordQueryService {
	return &wordQueryService{
		words:      words,
		userWords:  userWords,
		categories: categories,
		languages:  languages,
		offset:     func(n int) int { return rand.IntN(n + 1) },
		logger:     logger.With().Str("service", "WordQueryService").Logger(),
	}
}

func (s *wordQueryService) SampleWords(ctx context.Context, languageCode string, count int) ([]model.Word, error) {
	code := lang.NormalizeCode(languageCode)
	if !s.languages.Supports(code) {
		return nil, apperr.Validationf("unsupported language %q", languageCode)
	}
	if count <= 0 || count > maxSampleCount {
		return nil, apperr.Validationf("count must be between 1 and %d", maxSampleCount)
	}

	total, err := s.words.CountWords(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("language", code).Msg("Failed to count catalog words")
		return nil, err
	}
	if total == 0 {
		return []model.Word{}, nil
	}
	start := s.offset(max(0, total-count))
	return s.words.ListWords(ctx, code, start, count)
}

func (s *wordQueryService) GetWordByName(ctx context.Context, wordName, languageCode string) (*model.Word, error) {
	code := lang.NormalizeCode(languageCode)
	if !s.languages.Supports(code) {
		return nil, apperr.Validationf("unsupported language %q", languageCode)
	}
	name := lang.NormalizeWord(wordName, code)
	if name == "" {
		return nil, apperr.Validation("word must not be blank")
	}
	w, err := s.words.GetWordByName(ctx, name, code)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.NotFoundf("word %q (%s) not found", name, code)
	}
	return w, nil
}

func (s *wordQueryService) ListUserWords(ctx context.Context, userID string) ([]model.TrackedWord, error) {
	return s.userWords.ListByUser(ctx, userID)
}

// ListCategoryWords returns the words of one of the user's categories, newest first.
func (s *wordQueryService) ListCategoryWords(ctx context.Context, userID, categoryID string) ([]model.TrackedWord, error) {
	c, err := s.categories.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("category %s not found", categoryID)
	}
	if c.UserID != userID {
		return nil, apperr.NotAuthorized("category belongs to another user")
	}
	return s.userWords.ListByCategory(ctx, categoryID)
}
