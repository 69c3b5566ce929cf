package service

import (
	"context"
	"errors"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/rs/zerolog"
)

// LanguageService manages the languages a user learns.
type LanguageService interface {
	// Add starts learning a language. The first language becomes the default;
	// any further one needs a PREMIUM subscription.
	Add(ctx context.Context, userID, languageCode string) (*model.UserLanguage, error)
	List(ctx context.Context, userID string) ([]model.UserLanguage, error)
}

type languageService struct {
	repo      repository.LanguageRepository
	users     repository.UserRepository
	policy    quota.Policy
	languages lang.Table
	logger    zerolog.Logger
}

// NewLanguageService creates a new LanguageService.
func NewLanguageService(
	repo repository.LanguageRepository,
	users repository.UserRepository,
	policy quota.Policy,
	languages lang.Table,
	logger zerolog.Logger,
) LanguageService {
	return &languageService{
		repo:      repo,
		users:     users,
		policy:    policy,
		languages: languages,
		logger:    logger.With().Str("service", "LanguageService").Logger(),
	}
}

func (s *languageService) Add(ctx context.Context, userID, languageCode string) (*model.UserLanguage, error) {
	code := lang.NormalizeCode(languageCode)
	if !s.languages.Supports(code) {
		return nil, apperr.Validationf("unsupported language %q", languageCode)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user %s not found", userID)
	}

	existing, err := s.repo.ListUserLanguages(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, ul := range existing {
		if ul.LanguageCode == code {
			return nil, apperr.AlreadyExists("you are already learning " + code)
		}
	}
	if err := s.policy.CheckLanguageAddition(user.Tier, len(existing)); err != nil {
		return nil, err
	}

	ul := &model.UserLanguage{UserID: userID, LanguageCode: code, IsDefault: len(existing) == 0}
	if err := s.repo.CreateUserLanguage(ctx, ul); err != nil {
		if errors.Is(err, repository.ErrLanguageExists) {
			return nil, apperr.AlreadyExists("you are already learning " + code)
		}
		s.logger.Error().Err(err).Str("user_id", userID).Str("language", code).Msg("Failed to add language")
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("language", code).Bool("default", ul.IsDefault).Msg("User started a language")
	return ul, nil
}

func (s *languageService) List(ctx context.Context, userID string) ([]model.UserLanguage, error) {
	return s.repo.ListUserLanguages(ctx, userID)
}
