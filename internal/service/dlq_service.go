package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"maps"
	"strconv"

	"github.com/fadonmez/backend/internal/api/v1/dto"
	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/repository"

	"github.com/rs/zerolog"
)

const (
	dlqStatusUnprocessed     = "unprocessed"
	deliveryAttemptAttribute = "delivery_attempt"
)

// DLQService defines the interface for Dead Letter Queue operations.
type DLQService interface {
	ProcessAndSave(ctx context.Context, req *dto.PubSubPushRequest) error
}

// dlqService is the implementation of DLQService.
type dlqService struct {
	repo      repository.DLQRepository
	dlqLogger zerolog.Logger
}

// NewDLQService creates a new DLQService.
func NewDLQService(repo repository.DLQRepository, logger zerolog.Logger) DLQService {
	return &dlqService{
		repo:      repo,
		dlqLogger: logger.With().Str("service", "DLQService").Logger(),
	}
}

// ProcessAndSave stores a dead-lettered word event from a Pub/Sub push request.
// A push without a message ID is a Validation error.
func (s *dlqService) ProcessAndSave(ctx context.Context, req *dto.PubSubPushRequest) error {
	if req.Message.MessageID == "" {
		return apperr.Validation("Pub/Sub push is missing the message ID")
	}
	log := s.dlqLogger.With().
		Str("message_id", req.Message.MessageID).
		Str("subscription", req.Subscription).
		Logger()

	payload, err := base64.StdEncoding.DecodeString(req.Message.Data)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to decode DLQ message payload, saving as is")
		payload = []byte(req.Message.Data)
	}
	// The payload column is JSONB, so anything else is stored as a JSON string.
	if !json.Valid(payload) {
		payload, _ = json.Marshal(string(payload))
	}

	attrs := maps.Clone(req.Message.Attributes)
	if req.DeliveryAttempt > 0 {
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrs[deliveryAttemptAttribute] = strconv.Itoa(req.DeliveryAttempt)
	}
	var attributes []byte
	if len(attrs) > 0 {
		attributes, _ = json.Marshal(attrs)
	}

	var event WordCreatedEvent
	if json.Unmarshal(payload, &event) == nil && event.WordID != "" {
		log = log.With().Str("word_id", event.WordID).Str("event_type", event.EventType).Logger()
	}

	msg := &model.DeadLetterMessage{
		Source:     req.Subscription,
		MessageID:  req.Message.MessageID,
		Payload:    payload,
		Attributes: attributes,
		Status:     dlqStatusUnprocessed,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		log.Error().Err(err).Msg("Failed to save DLQ message")
		return err
	}
	log.Info().Int("delivery_attempt", req.DeliveryAttempt).Msg("Recorded dead-lettered message")
	return nil
}
