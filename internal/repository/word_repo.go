package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadonmez/backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WordRepository is the shared catalog of words and their translations.
type WordRepository interface {
	// GetWordByName returns the word with its translations, or nil if absent.
	GetWordByName(ctx context.Context, wordName, languageCode string) (*model.Word, error)
	GetTranslation(ctx context.Context, wordID, languageCode string) (*model.Translation, error)
	// CreateWordWithTranslation inserts the word, its first translation and, when uw is
	// non-nil, the user link in a single transaction. Returns ErrWordExists,
	// ErrTranslationExists or ErrUserWordExists when a unique constraint rejects a row.
	CreateWordWithTranslation(ctx context.Context, w *model.Word, t *model.Translation, uw *model.UserWord) error
	// AddTranslation inserts a translation for an existing word and, when uw is non-nil,
	// the user link in a single transaction.
	AddTranslation(ctx context.Context, t *model.Translation, uw *model.UserWord) error
	CountWords(ctx context.Context, languageCode string) (int, error)
	// ListWords returns a window of words in a language with their translations.
	ListWords(ctx context.Context, languageCode string, offset, limit int) ([]model.Word, error)
}

type wordRepo struct {
	pool *pgxpool.Pool
}

// NewWordRepo creates a new WordRepository.
func NewWordRepo(pool *pgxpool.Pool) WordRepository {
	return &wordRepo{pool: pool}
}

// GetWordByName looks a word up by its normalized spelling and language.
func (r *wordRepo) GetWordByName(ctx context.Context, wordName, languageCode string) (*model.Word, error) {
	const q = `
		SELECT id, word_name, language_code, example, level, created_at
		FROM words
		WHERE word_name = $1 AND language_code = $2
	`
	var w model.Word
	err := r.pool.QueryRow(ctx, q, wordName, languageCode).Scan(
		&w.WordID,
		&w.WordName,
		&w.LanguageCode,
		&w.Example,
		&w.Level,
		&w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting word %q (%s): %w", wordName, languageCode, err)
	}

	translations, err := loadTranslations(ctx, r.pool, []string{w.WordID})
	if err != nil {
		return nil, err
	}
	w.Translations = translations[w.WordID]
	return &w, nil
}

// GetTranslation returns the translation of a word into languageCode, or nil if absent.
func (r *wordRepo) GetTranslation(ctx context.Context, wordID, languageCode string) (*model.Translation, error) {
	const q = `
		SELECT id, word_id, language_code, translation_value, created_at
		FROM translations
		WHERE word_id = $1 AND language_code = $2
	`
	var t model.Translation
	err := r.pool.QueryRow(ctx, q, wordID, languageCode).Scan(
		&t.TranslationID,
		&t.WordID,
		&t.LanguageCode,
		&t.TranslationValue,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting translation of word %s into %s: %w", wordID, languageCode, err)
	}
	return &t, nil
}

func (r *wordRepo) CreateWordWithTranslation(ctx context.Context, w *model.Word, t *model.Translation, uw *model.UserWord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction for word %q: %w", w.WordName, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const insertWord = `
		INSERT INTO words (word_name, language_code, example, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, insertWord, w.WordName, w.LanguageCode, w.Example, w.Level).Scan(&w.WordID, &w.CreatedAt); err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("inserting word %q: %w", w.WordName, err)
	}

	t.WordID = w.WordID
	if err := insertTranslation(ctx, tx, t); err != nil {
		return err
	}
	w.Translations = []model.Translation{*t}

	if uw != nil {
		uw.WordID = w.WordID
		if err := insertUserWord(ctx, tx, uw); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing word %q: %w", w.WordName, err)
	}
	return nil
}

func (r *wordRepo) AddTranslation(ctx context.Context, t *model.Translation, uw *model.UserWord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction for translation of word %s: %w", t.WordID, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := insertTranslation(ctx, tx, t); err != nil {
		return err
	}
	if uw != nil {
		uw.WordID = t.WordID
		if err := insertUserWord(ctx, tx, uw); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing translation of word %s: %w", t.WordID, err)
	}
	return nil
}

// CountWords counts catalog words in a language.
func (r *wordRepo) CountWords(ctx context.Context, languageCode string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM words WHERE language_code = $1`, languageCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting words in %s: %w", languageCode, err)
	}
	return count, nil
}

func (r *wordRepo) ListWords(ctx context.Context, languageCode string, offset, limit int) ([]model.Word, error) {
	const q = `
		SELECT id, word_name, language_code, example, level, created_at
		FROM words
		WHERE language_code = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`
	rows, err := r.pool.Query(ctx, q, languageCode, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("querying words in %s: %w", languageCode, err)
	}
	defer rows.Close()

	words := []model.Word{}
	var ids []string
	for rows.Next() {
		var w model.Word
		if err := rows.Scan(&w.WordID, &w.WordName, &w.LanguageCode, &w.Example, &w.Level, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning word row: %w", err)
		}
		words = append(words, w)
		ids = append(ids, w.WordID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating word rows: %w", err)
	}

	translations, err := loadTranslations(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range words {
		words[i].Translations = translations[words[i].WordID]
	}
	return words, nil
}

func insertTranslation(ctx context.Context, db dbtx, t *model.Translation) error {
	const q = `
		INSERT INTO translations (word_id, language_code, translation_value)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := db.QueryRow(ctx, q, t.WordID, t.LanguageCode, t.TranslationValue).Scan(&t.TranslationID, &t.CreatedAt); err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("inserting translation of word %s into %s: %w", t.WordID, t.LanguageCode, err)
	}
	return nil
}

// loadTranslations fetches the translations of several words keyed by word id.
func loadTranslations(ctx context.Context, db dbtx, wordIDs []string) (map[string][]model.Translation, error) {
	out := make(map[string][]model.Translation, len(wordIDs))
	if len(wordIDs) == 0 {
		return out, nil
	}
	const q = `
		SELECT id, word_id, language_code, translation_value, created_at
		FROM translations
		WHERE word_id = ANY($1::uuid[])
		ORDER BY language_code
	`
	rows, err := db.Query(ctx, q, wordIDs)
	if err != nil {
		return nil, fmt.Errorf("querying translations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Translation
		if err := rows.Scan(&t.TranslationID, &t.WordID, &t.LanguageCode, &t.TranslationValue, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning translation row: %w", err)
		}
		out[t.WordID] = append(out[t.WordID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating translation rows: %w", err)
	}
	return out, nil
}
