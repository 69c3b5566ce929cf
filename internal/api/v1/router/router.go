package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fadonmez/backend/internal/api/v1/handler"
	"github.com/fadonmez/backend/internal/config"
	"github.com/fadonmez/backend/internal/enrichment"
	"github.com/fadonmez/backend/internal/lang"
	"github.com/fadonmez/backend/internal/middleware"
	"github.com/fadonmez/backend/internal/pgmq"
	"github.com/fadonmez/backend/internal/pubsub"
	"github.com/fadonmez/backend/internal/quota"
	"github.com/fadonmez/backend/internal/repository"
	"github.com/fadonmez/backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Words      service.WordService
	Queries    service.WordQueryService
	Categories service.CategoryService
	Languages  service.LanguageService
	Users      service.UserService
	DLQ        service.DLQService
	Stripe     *service.StripeService
}

// New opens the database, builds every service and returns the HTTP handler
// together with the pool, which the caller closes on shutdown.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	pool, err := repository.NewPool(ctx, cfg.DBConnectionString, !cfg.IsLocalDev())
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	svcs, err := newServices(ctx, cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	authMw := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	pubsubAuthMw := middleware.PubSubAuthMiddleware(cfg.IsLocalDev(), cfg.PubSubPushAudience, cfg.PubSubPushServiceAccountEmail, logger)
	return NewHandler(cfg, svcs, authMw, pubsubAuthMw, logger), pool, nil
}

// NewHandler mounts the API for svcs behind CORS and request logging.
func NewHandler(
	cfg *config.Config,
	svcs Services,
	authMw func(http.Handler) http.Handler,
	pubsubAuthMw func(http.Handler) http.Handler,
	logger zerolog.Logger,
) http.Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())

	userHandler := handler.NewUserHandler(svcs.Users, validate, logger)
	languageHandler := handler.NewLanguageHandler(svcs.Languages, validate, logger)
	categoryHandler := handler.NewCategoryHandler(svcs.Categories, validate, logger)
	wordHandler := handler.NewWordHandler(svcs.Words, svcs.Queries, logger)
	dlqHandler := handler.NewDLQHandler(svcs.DLQ, logger)

	var stripeWebhook http.HandlerFunc = func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "billing is not configured", http.StatusServiceUnavailable)
	}
	if svcs.Stripe != nil {
		stripeWebhook = svcs.Stripe.HandleWebhook
	}

	mux, api := SetupHumaAPI(cfg, authMw, pubsubAuthMw, stripeWebhook, logger)
	RegisterRoutes(api, userHandler, languageHandler, categoryHandler, wordHandler, dlqHandler, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}

func newServices(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (Services, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	policy := quota.Default()
	languages := lang.DefaultTable()

	wordRepo := repository.NewWordRepo(pool)
	userWordRepo := repository.NewUserWordRepo(pool)
	categoryRepo := repository.NewCategoryRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	languageRepo := repository.NewLanguageRepo(pool)
	subscriptionRepo := repository.NewSubscriptionRepo(pool)
	dlqRepo := repository.NewDLQRepository(pool)

	apiKey, err := enrichmentAPIKey(ctx, cfg, logger)
	if err != nil {
		return Services{}, err
	}
	enricher := enrichment.NewClient(enrichment.ClientConfig{
		BaseURL:    cfg.EnrichmentBaseURL,
		APIKey:     apiKey,
		Model:      cfg.EnrichmentModel,
		MaxTokens:  cfg.EnrichmentMaxTokens,
		Timeout:    cfg.EnrichmentTimeout(),
		RatePerSec: cfg.EnrichmentRatePerSec,
		Burst:      cfg.EnrichmentBurst,
	}, enrichment.NewPromptBuilder(languages), validate, logger)

	var publisher pubsub.Publisher = pubsub.NoopPublisher{}
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return Services{}, err
		}
		publisher = p
	} else {
		logger.Warn().Msg("GCP_PROJECT_ID not set, word events will not be published")
	}
	events := service.NewWordEventPublisher(publisher, cfg.PubSubWordTopic, logger)

	subscriptionService := service.NewSubscriptionService(userRepo, subscriptionRepo, policy, logger)

	svcs := Services{
		Words:      service.NewWordService(wordRepo, userWordRepo, categoryRepo, userRepo, enricher, events, policy, languages, validate, logger),
		Queries:    service.NewWordQueryService(wordRepo, userWordRepo, categoryRepo, languages, logger),
		Categories: service.NewCategoryService(categoryRepo, languageRepo, userRepo, policy, logger),
		Languages:  service.NewLanguageService(languageRepo, userRepo, policy, languages, logger),
		Users:      service.NewUserService(userRepo),
		DLQ:        service.NewDLQService(dlqRepo, logger),
	}
	if cfg.StripeWebhookSecret != "" {
		svcs.Stripe = service.NewStripeService(cfg.StripeWebhookSecret, subscriptionService, pgmq.New(pool), cfg.DowngradeQueueName, logger)
	} else {
		logger.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, billing webhooks are disabled")
	}
	return svcs, nil
}

// enrichmentAPIKey prefers the key from the environment and falls back to
// Secret Manager when only a secret name is configured.
func enrichmentAPIKey(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (string, error) {
	if cfg.EnrichmentAPIKey != "" {
		return cfg.EnrichmentAPIKey, nil
	}
	if cfg.EnrichmentAPIKeySecret == "" {
		logger.Warn().Msg("No enrichment API key configured, new words cannot be enriched")
		return "", nil
	}

	sm, err := service.NewSecretManagerService(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = sm.Close()
	}()
	key, err := sm.AccessSecret(ctx, cfg.EnrichmentAPIKeySecret)
	if err != nil {
		return "", fmt.Errorf("loading enrichment API key: %w", err)
	}
	return key, nil
}
