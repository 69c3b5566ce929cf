package service

import (
	"context"
	"errors"
	"strings"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/rs/zerolog"
)

const maxCategoryNameLen = 50

// CategoryService defines the interface for category operations
type CategoryService interface {
	// Create adds a category to a language the user learns.
	Create(ctx context.Context, userID, languageCode, name string) (*model.Category, error)
	// List returns the user's categories in a language
	List(ctx context.Context, userID, languageCode string) ([]model.Category, error)
	// Delete removes one of the user's categories together with the words tracked in it.
	Delete(ctx context.Context, userID, categoryID string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	languages  repository.LanguageRepository
	users      repository.UserRepository
	policy     quota.Policy
	logger     zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categories repository.CategoryRepository,
	languages repository.LanguageRepository,
	users repository.UserRepository,
	policy quota.Policy,
	logger zerolog.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		languages:  languages,
		users:      users,
		policy:     policy,
		logger:     logger.With().Str("service", "CategoryService").Logger(),
	}
}

func (s *categoryService) Create(ctx context.Context, userID, languageCode, name string) (*model.Category, error) {
	code := lang.NormalizeCode(languageCode)
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, apperr.Validation("category name must not be blank")
	}
	if len([]rune(name)) > maxCategoryNameLen {
		return nil, apperr.Validationf("category name must be at most %d characters", maxCategoryNameLen)
	}

	ul, err := s.languages.GetUserLanguage(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if ul == nil {
		return nil, apperr.NotFoundf("you are not learning %q", languageCode)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user %s not found", userID)
	}

	n, err := s.categories.CountByUserLanguage(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CheckCategoryCreation(user.Tier, n); err != nil {
		return nil, err
	}

	c := &model.Category{UserID: userID, UserLanguageID: ul.ID, LanguageCode: code, Name: name}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, apperr.AlreadyExists("category " + name + " already exists")
		}
		s.logger.Error().Err(err).Str("user_id", userID).Str("language", code).Msg("Failed to create category")
		return nil, err
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context, userID, languageCode string) ([]model.Category, error) {
	return s.categories.ListCategories(ctx, userID, lang.NormalizeCode(languageCode))
}

func (s *categoryService) Delete(ctx context.Context, userID, categoryID string) error {
	c, err := s.categories.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFoundf("category %s not found", categoryID)
	}
	if c.UserID != userID {
		return apperr.NotAuthorized("category belongs to another user")
	}
	if err := s.categories.DeleteCategory(ctx, categoryID); err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Msg("Failed to delete category")
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("category_id", categoryID).Msg("Category deleted")
	return nil
}
