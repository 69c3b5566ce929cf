package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadonmez/backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserWordRepository stores which user tracks which catalog word.
type UserWordRepository interface {
	// LinkUserWord records that uw.UserID tracks uw.WordID in uw.CategoryID.
	// Returns ErrUserWordExists when the pair is already linked.
	LinkUserWord(ctx context.Context, uw *model.UserWord) error
	// IsTrackingWordName reports whether the user tracks any word spelled wordName, in any language.
	IsTrackingWordName(ctx context.Context, userID, wordName string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]model.TrackedWord, error)
	ListByCategory(ctx context.Context, categoryID string) ([]model.TrackedWord, error)
	GetUserWordByID(ctx context.Context, userWordID string) (*model.UserWord, error)
	// DeleteUserWord removes the link only. The catalog word is kept.
	DeleteUserWord(ctx context.Context, userWordID string) error
}

type userWordRepo struct {
	pool *pgxpool.Pool
}

// NewUserWordRepo creates a new UserWordRepository.
func NewUserWordRepo(pool *pgxpool.Pool) UserWordRepository {
	return &userWordRepo{pool: pool}
}

func (r *userWordRepo) LinkUserWord(ctx context.Context, uw *model.UserWord) error {
	return insertUserWord(ctx, r.pool, uw)
}

func (r *userWordRepo) IsTrackingWordName(ctx context.Context, userID, wordName string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM user_words uw
			JOIN words w ON w.id = uw.word_id
			WHERE uw.user_id = $1 AND w.word_name = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, userID, wordName).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking whether user %s tracks %q: %w", userID, wordName, err)
	}
	return exists, nil
}

func (r *userWordRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_words WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting words of user %s: %w", userID, err)
	}
	return count, nil
}

func (r *userWordRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_words WHERE category_id = $1`, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting words in category %s: %w", categoryID, err)
	}
	return count, nil
}

// ListByUser returns every word the user tracks, newest first.
func (r *userWordRepo) ListByUser(ctx context.Context, userID string) ([]model.TrackedWord, error) {
	const q = trackedWordSelect + `
		WHERE uw.user_id = $1
		ORDER BY uw.created_at DESC
	`
	return r.listTracked(ctx, q, userID)
}

// ListByCategory returns the words of one category, newest first.
func (r *userWordRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.TrackedWord, error) {
	const q = trackedWordSelect + `
		WHERE uw.category_id = $1
		ORDER BY uw.created_at DESC
	`
	return r.listTracked(ctx, q, categoryID)
}

func (r *userWordRepo) GetUserWordByID(ctx context.Context, userWordID string) (*model.UserWord, error) {
	const q = `
		SELECT id, user_id, word_id, category_id, created_at
		FROM user_words
		WHERE id = $1
	`
	var uw model.UserWord
	err := r.pool.QueryRow(ctx, q, userWordID).Scan(
		&uw.UserWordID,
		&uw.UserID,
		&uw.WordID,
		&uw.CategoryID,
		&uw.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || invalidInput(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user word %s: %w", userWordID, err)
	}
	return &uw, nil
}

func (r *userWordRepo) DeleteUserWord(ctx context.Context, userWordID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_words WHERE id = $1`, userWordID); err != nil {
		return fmt.Errorf("deleting user word %s: %w", userWordID, err)
	}
	return nil
}

const trackedWordSelect = `
		SELECT uw.id, uw.user_id, uw.word_id, uw.category_id, uw.created_at,
		       w.id, w.word_name, w.language_code, w.example, w.level, w.created_at
		FROM user_words uw
		JOIN words w ON w.id = uw.word_id
`

func (r *userWordRepo) listTracked(ctx context.Context, q string, arg string) ([]model.TrackedWord, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("querying tracked words for %s: %w", arg, err)
	}
	defer rows.Close()

	tracked := []model.TrackedWord{}
	var ids []string
	for rows.Next() {
		var tw model.TrackedWord
		if err := rows.Scan(
			&tw.UserWordID,
			&tw.UserID,
			&tw.WordID,
			&tw.CategoryID,
			&tw.UserWord.CreatedAt,
			&tw.Word.WordID,
			&tw.Word.WordName,
			&tw.Word.LanguageCode,
			&tw.Word.Example,
			&tw.Word.Level,
			&tw.Word.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning tracked word row: %w", err)
		}
		tracked = append(tracked, tw)
		ids = append(ids, tw.WordID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracked word rows: %w", err)
	}

	translations, err := loadTranslations(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range tracked {
		tracked[i].Word.Translations = translations[tracked[i].WordID]
	}
	return tracked, nil
}

func insertUserWord(ctx context.Context, db dbtx, uw *model.UserWord) error {
	const q = `
		INSERT INTO user_words (user_id, word_id, category_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := db.QueryRow(ctx, q, uw.UserID, uw.WordID, uw.CategoryID).Scan(&uw.UserWordID, &uw.CreatedAt); err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("linking word %s to user %s: %w", uw.WordID, uw.UserID, err)
	}
	return nil
}
