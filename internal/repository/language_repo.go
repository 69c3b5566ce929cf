package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadonmez/backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LanguageRepository stores the languages each user is learning.
type LanguageRepository interface {
	ListUserLanguages(ctx context.Context, userID string) ([]model.UserLanguage, error)
	GetUserLanguage(ctx context.Context, userID, languageCode string) (*model.UserLanguage, error)
	// CreateUserLanguage returns ErrLanguageExists if the user already learns the language.
	CreateUserLanguage(ctx context.Context, ul *model.UserLanguage) error
}

type languageRepo struct {
	pool *pgxpool.Pool
}

// NewLanguageRepo creates a new LanguageRepository.
func NewLanguageRepo(pool *pgxpool.Pool) LanguageRepository {
	return &languageRepo{pool: pool}
}

// ListUserLanguages returns the default language first, then the rest by age.
func (r *languageRepo) ListUserLanguages(ctx context.Context, userID string) ([]model.UserLanguage, error) {
	const q = `
		SELECT id, user_id, language_code, is_default, created_at
		FROM user_languages
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying languages of user %s: %w", userID, err)
	}
	defer rows.Close()

	languages := []model.UserLanguage{}
	for rows.Next() {
		var ul model.UserLanguage
		if err := rows.Scan(&ul.ID, &ul.UserID, &ul.LanguageCode, &ul.IsDefault, &ul.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user language row: %w", err)
		}
		languages = append(languages, ul)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user language rows: %w", err)
	}
	return languages, nil
}

func (r *languageRepo) GetUserLanguage(ctx context.Context, userID, languageCode string) (*model.UserLanguage, error) {
	const q = `
		SELECT id, user_id, language_code, is_default, created_at
		FROM user_languages
		WHERE user_id = $1 AND language_code = $2
	`
	var ul model.UserLanguage
	err := r.pool.QueryRow(ctx, q, userID, languageCode).Scan(&ul.ID, &ul.UserID, &ul.LanguageCode, &ul.IsDefault, &ul.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting language %s of user %s: %w", languageCode, userID, err)
	}
	return &ul, nil
}

func (r *languageRepo) CreateUserLanguage(ctx context.Context, ul *model.UserLanguage) error {
	const q = `
		INSERT INTO user_languages (user_id, language_code, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, q, ul.UserID, ul.LanguageCode, ul.IsDefault).Scan(&ul.ID, &ul.CreatedAt); err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("adding language %s for user %s: %w", ul.LanguageCode, ul.UserID, err)
	}
	return nil
}
