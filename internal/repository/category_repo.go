package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadonmez/backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository defines the interface for interacting with category data
type CategoryRepository interface {
	// GetCategoryByID retrieves a category by its ID
	GetCategoryByID(ctx context.Context, categoryID string) (*model.Category, error)
	// CountByUserLanguage counts the user's categories in one language
	CountByUserLanguage(ctx context.Context, userID, languageCode string) (int, error)
	// CreateCategory inserts a category. Returns ErrCategoryExists on a duplicate name.
	CreateCategory(ctx context.Context, c *model.Category) error
	ListCategories(ctx context.Context, userID, languageCode string) ([]model.Category, error)
	// DeleteCategory removes a category. Its user words go with it.
	DeleteCategory(ctx context.Context, categoryID string) error
}

type categoryRepo struct {
	pool *pgxpool.Pool
}

// NewCategoryRepo creates a new CategoryRepository
func NewCategoryRepo(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepo{pool: pool}
}

func (r *categoryRepo) GetCategoryByID(ctx context.Context, categoryID string) (*model.Category, error) {
	const q = `
		SELECT id, user_id, user_language_id, language_code, name, created_at
		FROM categories
		WHERE id = $1
	`
	var c model.Category
	err := r.pool.QueryRow(ctx, q, categoryID).Scan(
		&c.CategoryID,
		&c.UserID,
		&c.UserLanguageID,
		&c.LanguageCode,
		&c.Name,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || invalidInput(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting category %s: %w", categoryID, err)
	}
	return &c, nil
}

func (r *categoryRepo) CountByUserLanguage(ctx context.Context, userID, languageCode string) (int, error) {
	const q = `SELECT COUNT(*) FROM categories WHERE user_id = $1 AND language_code = $2`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID, languageCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting categories of user %s in %s: %w", userID, languageCode, err)
	}
	return count, nil
}

// CreateCategory inserts a new category and returns the created record
func (r *categoryRepo) CreateCategory(ctx context.Context, c *model.Category) error {
	const q = `
		INSERT INTO categories (user_id, user_language_id, language_code, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, q, c.UserID, c.UserLanguageID, c.LanguageCode, c.Name).Scan(&c.CategoryID, &c.CreatedAt); err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("creating category %q for user %s: %w", c.Name, c.UserID, err)
	}
	return nil
}

// ListCategories returns the user's categories in a language ordered by name.
func (r *categoryRepo) ListCategories(ctx context.Context, userID, languageCode string) ([]model.Category, error) {
	const q = `
		SELECT id, user_id, user_language_id, language_code, name, created_at
		FROM categories
		WHERE user_id = $1 AND language_code = $2
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, q, userID, languageCode)
	if err != nil {
		return nil, fmt.Errorf("querying categories of user %s: %w", userID, err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.CategoryID, &c.UserID, &c.UserLanguageID, &c.LanguageCode, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *categoryRepo) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID); err != nil {
		return fmt.Errorf("deleting category %s: %w", categoryID, err)
	}
	return nil
}
