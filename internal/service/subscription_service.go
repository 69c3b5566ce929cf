package service

import (
	"context"
	"errors"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SubscriptionService moves users between tiers.
type SubscriptionService interface {
	// Upgrade moves the user to PREMIUM. Nothing else changes.
	Upgrade(ctx context.Context, userID string) error
	// Downgrade moves the user to NORMAL, removes every non-default language and
	// keeps only the newest tracked words the NORMAL tier allows.
	Downgrade(ctx context.Context, userID string) (*repository.DowngradeResult, error)
}

type subscriptionService struct {
	users  repository.UserRepository
	repo   repository.SubscriptionRepository
	policy quota.Policy
	logger zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService with a scoped logger.
func NewSubscriptionService(users repository.UserRepository, repo repository.SubscriptionRepository, policy quota.Policy, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		users:  users,
		repo:   repo,
		policy: policy,
		logger: logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

func (s *subscriptionService) Upgrade(ctx context.Context, userID string) error {
	if err := s.users.UpdateTier(ctx, userID, quota.TierPremium); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFoundf("user %s not found", userID)
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upgrade user")
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("User upgraded to premium")
	return nil
}

func (s *subscriptionService) Downgrade(ctx context.Context, userID string) (*repository.DowngradeResult, error) {
	res, err := s.repo.ApplyDowngrade(ctx, userID, s.policy.RetainedWords(quota.TierNormal))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("user %s not found", userID)
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to downgrade user")
		return nil, err
	}
	s.logger.Info().
		Str("user_id", userID).
		Int64("removed_languages", res.RemovedLanguages).
		Int64("removed_words", res.RemovedWords).
		Msg("User downgraded to normal")
	return res, nil
}
