package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/fadonmez/backend/internal/config"
	"github.com/fadonmez/backend/internal/logger"
	"github.com/fadonmez/backend/internal/orchestrator/downgrade"
	"github.com/fadonmez/backend/internal/pgmq"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"
	"github.com/fadonmez/backend/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "", "Orchestrator mode: downgrade")
	flag.Parse()

	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := repository.NewPool(ctx, cfg.DBConnectionString, !cfg.IsLocalDev())
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer pool.Close()
	logger.Info().Msg("Database connection established")

	pgmqClient := pgmq.New(pool)
	logger.Info().Msg("PGMQ client initialized")

	// Dispatch to the selected orchestrator
	var runErr error
	switch *mode {
	case "downgrade":
		subs := service.NewSubscriptionService(
			repository.NewUserRepo(pool),
			repository.NewSubscriptionRepo(pool),
			quota.Default(),
			logger,
		)
		runErr = downgrade.Run(ctx, logger, pgmqClient, subs, downgrade.SettingsFromConfig(cfg))
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("%s orchestrator failed: %v", *mode, runErr)
	}

	logger.Info().Msgf("%s orchestrator stopped gracefully", *mode)
}
