package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConns        = 25
	maxConnIdleTime = 5 * time.Minute
)

// NewPool opens and pings a connection pool. Behind a transaction pooler such as
// pgbouncer simpleProtocol must be set, since server-side prepared statements
// do not survive connection hand-offs.
func NewPool(ctx context.Context, dsn string, simpleProtocol bool) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DB connection string: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	if simpleProtocol {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening DB pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging DB: %w", err)
	}
	return pool, nil
}

// dbtx lets query helpers run on either the pool or an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Unique-constraint violations surfaced to services. Services treat these as
// "someone else got there first" and re-read instead of failing.
var (
	ErrWordExists        = errors.New("word already exists")
	ErrTranslationExists = errors.New("translation already exists")
	ErrUserWordExists    = errors.New("user word already exists")
	ErrCategoryExists    = errors.New("category already exists")
	ErrLanguageExists    = errors.New("user language already exists")
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

var constraintErrors = map[string]error{
	"words_word_name_language_code_key":      ErrWordExists,
	"translations_word_id_language_code_key": ErrTranslationExists,
	"user_words_user_id_word_id_key":         ErrUserWordExists,
	"categories_user_language_name_key":      ErrCategoryExists,
	"user_languages_user_language_key":       ErrLanguageExists,
	"user_languages_one_default_idx":         ErrLanguageExists,
}

// conflictError maps a Postgres unique violation to one of the sentinels above.
// It returns nil for any other error.
func conflictError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return mapped
	}
	return nil
}

// invalidInput reports whether Postgres rejected a parameter's text form, such
// as a malformed UUID. Lookups treat that as "no such row".
func invalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
