package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/quota"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository stores learner accounts and their tier.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateTier(ctx context.Context, id string, tier quota.Tier) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

// CreateUser inserts the user, or refreshes email and name when u.UserID already
// exists. An empty UserID lets the database assign one. The stored tier is kept on update.
func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	const q = `
		INSERT INTO users (id, email, name, tier)
		VALUES (COALESCE(NULLIF($1::text, '')::uuid, gen_random_uuid()), $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, tier, created_at, updated_at
	`
	if u.Tier == "" {
		u.Tier = quota.TierNormal
	}
	err := r.pool.QueryRow(ctx, q, u.UserID, u.Email, u.Name, u.Tier).Scan(&u.UserID, &u.Tier, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", u.Email, err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, email, name, tier, created_at, updated_at FROM users WHERE id = $1`
	var u model.User
	if err := r.pool.QueryRow(ctx, q, id).Scan(&u.UserID, &u.Email, &u.Name, &u.Tier, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}

func (r *userRepo) UpdateTier(ctx context.Context, id string, tier quota.Tier) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET tier = $1, updated_at = NOW() WHERE id = $2`, tier, id)
	if err != nil {
		return fmt.Errorf("updating tier of user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating tier of user %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}
