package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fadonmez/backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migs, err := migrations.All()
			if err != nil {
				return fmt.Errorf("loading migrations: %w", err)
			}
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				applied, err := b.Migrator.Apply(ctx, migs)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts.Format, map[string][]string{"applied": applied}, func(w io.Writer) {
					if len(applied) == 0 {
						fmt.Fprintln(w, "schema is up to date")
						return
					}
					for _, name := range applied {
						fmt.Fprintf(w, "applied %s\n", name)
					}
				})
			})
		},
	}
}

type pgMigrator struct {
	pool *pgxpool.Pool
}

// Apply runs each migration not yet recorded in schema_migrations in its own
// transaction, recording it in the same transaction.
func (m *pgMigrator) Apply(ctx context.Context, migs []migrations.Migration) ([]string, error) {
	if _, err := m.pool.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}

	var applied []string
	for _, mig := range migs {
		ok, err := m.applyOne(ctx, mig)
		if err != nil {
			return applied, err
		}
		if ok {
			applied = append(applied, mig.Name)
		}
	}
	return applied, nil
}

func (m *pgMigrator) applyOne(ctx context.Context, mig migrations.Migration) (bool, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("starting migration %s: %w", mig.Name, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Serializes concurrent migrate runs.
	if _, err := tx.Exec(ctx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
		return false, fmt.Errorf("locking schema_migrations: %w", err)
	}
	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, mig.Name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking migration %s: %w", mig.Name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return false, fmt.Errorf("applying migration %s: %w", mig.Name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, mig.Name); err != nil {
		return false, fmt.Errorf("recording migration %s: %w", mig.Name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing migration %s: %w", mig.Name, err)
	}
	return true, nil
}

