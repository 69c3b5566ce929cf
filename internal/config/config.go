package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Core
	Port               string `envconfig:"PORT" default:"8080"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	Environment        string `envconfig:"ENV" default:"development"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`
	APIBaseURL         string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`

	// Enrichment (OpenAI-compatible chat completions)
	EnrichmentBaseURL      string  `envconfig:"ENRICHMENT_BASE_URL" default:"https://api.openai.com/v1"`
	EnrichmentAPIKey       string  `envconfig:"ENRICHMENT_API_KEY"`
	EnrichmentAPIKeySecret string  `envconfig:"ENRICHMENT_API_KEY_SECRET"` // Secret Manager secret name, used when ENRICHMENT_API_KEY is empty
	EnrichmentModel        string  `envconfig:"ENRICHMENT_MODEL" default:"gpt-3.5-turbo-0125"`
	EnrichmentTimeoutSec   int     `envconfig:"ENRICHMENT_TIMEOUT_SEC" default:"20"`
	EnrichmentMaxTokens    int     `envconfig:"ENRICHMENT_MAX_TOKENS" default:"150"`
	EnrichmentRatePerSec   float64 `envconfig:"ENRICHMENT_RATE_PER_SEC" default:"5"`
	EnrichmentBurst        int     `envconfig:"ENRICHMENT_BURST" default:"10"`

	// GCP
	GCPProjectID                  string `envconfig:"GCP_PROJECT_ID"`
	GCPCredentialsFile            string `envconfig:"GCP_CREDENTIALS_FILE"`
	PubSubEmulatorHost            string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubWordTopic               string `envconfig:"PUBSUB_WORD_TOPIC" default:"word-events"`
	PubSubPushAudience            string `envconfig:"PUBSUB_PUSH_AUDIENCE"`
	PubSubPushServiceAccountEmail string `envconfig:"PUBSUB_PUSH_SERVICE_ACCOUNT_EMAIL"`

	// Billing
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`

	// Downgrade orchestrator settings
	DowngradeQueueName           string `envconfig:"DOWNGRADE_QUEUE_NAME" default:"downgrade_queue"`
	DowngradeDeadLetterQueueName string `envconfig:"DOWNGRADE_DEAD_LETTER_QUEUE_NAME" default:"downgrade_queue_dlq"`
	DowngradePollTimeoutSec      int    `envconfig:"DOWNGRADE_POLL_TIMEOUT_SEC" default:"30"`
	DowngradePollMaxMsg          int    `envconfig:"DOWNGRADE_POLL_MAX_MSG" default:"1"`
	DowngradeVisibilitySec       int    `envconfig:"DOWNGRADE_VISIBILITY_SEC" default:"60"`
	DowngradeMaxAttempts         int    `envconfig:"DOWNGRADE_MAX_ATTEMPTS" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate catches values envconfig accepts but the service cannot run with.
// A variable that is set but empty passes envconfig's required check.
func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.DBConnectionString) == "" {
		errs = append(errs, errors.New("DB_CONNECTION_STRING must not be empty"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.EnrichmentTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("ENRICHMENT_TIMEOUT_SEC must be positive, got %d", c.EnrichmentTimeoutSec))
	}
	if c.EnrichmentMaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("ENRICHMENT_MAX_TOKENS must be positive, got %d", c.EnrichmentMaxTokens))
	}
	return errors.Join(errs...)
}

// IsLocalDev reports whether the service runs on a developer machine.
func (c *Config) IsLocalDev() bool {
	return c.Environment == "development"
}

// EnrichmentTimeout is the deadline for one enrichment call.
func (c *Config) EnrichmentTimeout() time.Duration {
	return time.Duration(c.EnrichmentTimeoutSec) * time.Second
}
