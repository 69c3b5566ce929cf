package repository

import (
	"context"
	"fmt"

	"github.com/fadonmez/backend/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DLQRepository interface {
	Create(ctx context.Context, message *model.DeadLetterMessage) error
}

type dlqRepository struct {
	pool *pgxpool.Pool
}

func NewDLQRepository(pool *pgxpool.Pool) DLQRepository {
	return &dlqRepository{pool: pool}
}

func (r *dlqRepository) Create(ctx context.Context, message *model.DeadLetterMessage) error {
	const q = `
		INSERT INTO dead_letter_messages (source, message_id, payload, attributes, status)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5)
	`
	var attributes *string
	if len(message.Attributes) > 0 {
		s := string(message.Attributes)
		attributes = &s
	}
	_, err := r.pool.Exec(
		ctx,
		q,
		message.Source,
		message.MessageID,
		string(message.Payload),
		attributes,
		message.Status,
	)
	if err != nil {
		return fmt.Errorf("creating dead letter message from %s: %w", message.Source, err)
	}
	return nil
}
