// Package cli implements vocabctl, the operator CLI for the vocabulary backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/logger"
	"github.com/fadonmez/backend/migrations"
	"github.com/fadonmez/backend/internal/pgmq"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"
	"github.com/fadonmez/backend/internal/service"

	"github.com/spf13/cobra"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Migrator applies schema migrations and reports the ones it ran.
type Migrator interface {
	Apply(ctx context.Context, migs []migrations.Migration) ([]string, error)
}

// Backend is what the commands operate on.
type Backend struct {
	Queries       service.WordQueryService
	Subscriptions service.SubscriptionService
	Jobs          service.JobSender
	Migrator      Migrator
	Close         func()
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DSN    string
	Format string

	// Connect builds the Backend. Tests replace it.
	Connect func(ctx context.Context, dsn string) (*Backend, error)
}

// NewRootCommand creates the root command for vocabctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Connect: connect})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vocabctl",
		Short:         "Operate the vocabulary backend",
		Long:          "Apply migrations, inspect the shared word catalog and run subscription downgrades.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.DSN == "" {
				return fmt.Errorf("no database: set --db or DB_CONNECTION_STRING")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DSN, "db", os.Getenv("DB_CONNECTION_STRING"), "Postgres connection string")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSampleCommand(opts))
	cmd.AddCommand(newLookupCommand(opts))
	cmd.AddCommand(newDowngradeCommand(opts))

	return cmd
}

// withBackend connects, runs fn and releases the backend.
func withBackend(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, b *Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := opts.Connect(ctx, opts.DSN)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(ctx, b)
}

// output writes v as JSON, or calls text for the text format.
func output(w io.Writer, format string, v any, text func(w io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func connect(ctx context.Context, dsn string) (*Backend, error) {
	pool, err := repository.NewPool(ctx, dsn, false)
	if err != nil {
		return nil, err
	}
	log := logger.New()
	users := repository.NewUserRepo(pool)
	return &Backend{
		Queries: service.NewWordQueryService(
			repository.NewWordRepo(pool),
			repository.NewUserWordRepo(pool),
			repository.NewCategoryRepo(pool),
			lang.DefaultTable(),
			log,
		),
		Subscriptions: service.NewSubscriptionService(users, repository.NewSubscriptionRepo(pool), quota.Default(), log),
		Jobs:          pgmq.New(pool),
		Migrator:      &pgMigrator{pool: pool},
		Close:         pool.Close,
	}, nil
}
