package repository

import (
	"context"
	"fmt"

	"github.com/fadonmez/backend/internal/quota"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DowngradeResult reports what a downgrade removed.
type DowngradeResult struct {
	RemovedLanguages int64
	RemovedWords     int64
}

// SubscriptionRepository applies tier transitions together with the state they imply.
type SubscriptionRepository interface {
	// ApplyDowngrade moves the user to NORMAL, deletes every non-default language
	// (and with it those languages' categories and tracked words), then deletes all
	// but the newest retain tracked words. All in one transaction.
	ApplyDowngrade(ctx context.Context, userID string, retain int) (*DowngradeResult, error)
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) ApplyDowngrade(ctx context.Context, userID string, retain int) (*DowngradeResult, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("starting downgrade transaction for user %s: %w", userID, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `UPDATE users SET tier = $1, updated_at = NOW() WHERE id = $2`, quota.TierNormal, userID)
	if err != nil {
		return nil, fmt.Errorf("downgrading tier of user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("downgrading user %s: %w", userID, pgx.ErrNoRows)
	}

	var res DowngradeResult
	tag, err = tx.Exec(ctx, `DELETE FROM user_languages WHERE user_id = $1 AND NOT is_default`, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting extra languages of user %s: %w", userID, err)
	}
	res.RemovedLanguages = tag.RowsAffected()

	// Languages cascade into categories and their user_words, so the trim below
	// only sees what survived the language cleanup.
	const trimQ = `
		DELETE FROM user_words
		WHERE user_id = $1
		  AND id NOT IN (
			SELECT id FROM user_words
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		  )
	`
	if retain != quota.Unlimited {
		tag, err = tx.Exec(ctx, trimQ, userID, retain)
		if err != nil {
			return nil, fmt.Errorf("trimming words of user %s: %w", userID, err)
		}
		res.RemovedWords = tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing downgrade of user %s: %w", userID, err)
	}
	return &res, nil
}
