package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/fadonmez/backend/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = 65536

// JobSender enqueues a JSON payload. *pgmq.Client satisfies it.
type JobSender interface {
	Send(ctx context.Context, queue string, payload []byte) error
}

// StripeService turns Stripe subscription events into tier changes.
type StripeService struct {
	webhookSecret  string
	subSvc         SubscriptionService
	jobs           JobSender
	downgradeQueue string
	logger         zerolog.Logger
}

// NewStripeService returns the service with a scoped logger. Downgrades are not
// applied inline; they are queued on downgradeQueue for the orchestrator.
func NewStripeService(webhookSecret string, subSvc SubscriptionService, jobs JobSender, downgradeQueue string, logger zerolog.Logger) *StripeService {
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{
		webhookSecret:  webhookSecret,
		subSvc:         subSvc,
		jobs:           jobs,
		downgradeQueue: downgradeQueue,
		logger:         lg,
	}
}

// HandleWebhook processes Stripe webhook events
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.webhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Str("event_id", event.ID).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			s.logger.Error().Err(err).Msg("Invalid checkout.session data")
			http.Error(w, "invalid checkout.session data", http.StatusBadRequest)
			return
		}
		userID := cs.Metadata["user_id"]
		if userID == "" {
			s.logger.Error().Str("session_id", cs.ID).Msg("Missing user_id in checkout session metadata")
			http.Error(w, "missing user_id in metadata", http.StatusBadRequest)
			return
		}
		if err := s.subSvc.Upgrade(ctx, userID); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upgrade user on checkout.session.completed")
			http.Error(w, "failed to upgrade user", http.StatusInternalServerError)
			return
		}
	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Msg("Invalid customer.subscription.deleted payload")
			http.Error(w, "invalid subscription data", http.StatusBadRequest)
			return
		}
		userID := ss.Metadata["user_id"]
		if userID == "" {
			s.logger.Error().Str("subscription_id", ss.ID).Msg("Missing user_id in subscription metadata")
			http.Error(w, "missing user_id in metadata", http.StatusBadRequest)
			return
		}
		if err := s.enqueueDowngrade(ctx, userID, string(event.Type)); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to enqueue downgrade on customer.subscription.deleted")
			http.Error(w, "failed to enqueue downgrade", http.StatusInternalServerError)
			return
		}
	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}
	w.WriteHeader(http.StatusOK)
}

func (s *StripeService) enqueueDowngrade(ctx context.Context, userID, reason string) error {
	job, err := json.Marshal(model.DowngradeJob{UserID: userID, Reason: reason, RequestedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := s.jobs.Send(ctx, s.downgradeQueue, job); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("queue", s.downgradeQueue).Msg("Queued downgrade job")
	return nil
}
