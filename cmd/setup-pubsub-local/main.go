package main

import (
	"context"
	"errors"
	"time"

	"github.com/fadonmez/backend/internal/config"
	"github.com/fadonmez/backend/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// For local development, 'host.docker.internal' lets the emulator reach the API on the host.
const dlqPushEndpointLocal = "http://host.docker.internal:8080/dlq/record"

const (
	topicRetention      = 7 * 24 * time.Hour
	ackDeadline         = 60 * time.Second
	maxDeliveryAttempts = 5
)

func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found, relying on system environment variables.")
	}
	logger.Info().Msg("Starting Pub/Sub setup for the local environment.")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Failed to load config: %v", err)
	}
	if cfg.GCPProjectID == "" {
		logger.Fatal().Msg("GCP_PROJECT_ID is not set in the environment.")
	}
	if cfg.PubSubEmulatorHost == "" {
		logger.Fatal().Msg("PUBSUB_EMULATOR_HOST must be set for local environment.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID,
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Msgf("Failed to close pubsub client: %v", err)
		}
	}()

	if err := resetLocalEmulator(ctx, client, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to reset emulator")
	}
	if err := createResources(ctx, client, cfg.PubSubWordTopic, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create resources")
	}

	logger.Info().Msg("Pub/Sub setup for local environment complete.")
}

// resetLocalEmulator deletes every subscription and topic. Only for the emulator.
func resetLocalEmulator(ctx context.Context, client *pubsub.Client, logger zerolog.Logger) error {
	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}
		logger.Info().Str("subscription", sub.ID()).Msg("Deleting subscription")
		if err := sub.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}
		logger.Info().Str("topic", topic.ID()).Msg("Deleting topic")
		if err := topic.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
	return nil
}

// createResources sets up the word event topic with a pull subscription whose
// undeliverable messages go to a dead-letter topic pushed to the API.
func createResources(ctx context.Context, client *pubsub.Client, topicID string, logger zerolog.Logger) error {
	dlqTopic, err := client.CreateTopicWithConfig(ctx, topicID+"-dlq", &pubsub.TopicConfig{RetentionDuration: topicRetention})
	if err != nil {
		return err
	}
	mainTopic, err := client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{RetentionDuration: topicRetention})
	if err != nil {
		return err
	}
	retry := &pubsub.RetryPolicy{MinimumBackoff: 10 * time.Second, MaximumBackoff: 600 * time.Second}

	subID := topicID + "-sub"
	logger.Info().Str("subscription", subID).Msg("Creating subscription")
	if _, err := client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
		Topic:       mainTopic,
		AckDeadline: ackDeadline,
		RetryPolicy: retry,
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     dlqTopic.String(),
			MaxDeliveryAttempts: maxDeliveryAttempts,
		},
	}); err != nil {
		return err
	}

	dlqSubID := topicID + "-dlq-sub"
	logger.Info().Str("subscription", dlqSubID).Str("endpoint", dlqPushEndpointLocal).Msg("Creating DLQ push subscription")
	_, err = client.CreateSubscription(ctx, dlqSubID, pubsub.SubscriptionConfig{
		Topic:       dlqTopic,
		PushConfig:  pubsub.PushConfig{Endpoint: dlqPushEndpointLocal},
		AckDeadline: ackDeadline,
		RetryPolicy: retry,
	})
	return err
}
