package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fadonmez/backend/internal/model"
	"github.com/fadonmez/backend/internal/pubsub"

	"github.com/rs/zerolog"
)

const (
	eventWordCreated   = "word.created"
	publishTimeout     = 5 * time.Second
	eventTypeAttribute = "event_type"
	languageAttribute  = "language_code"
)

// WordEventPublisher announces catalog changes. Publishing is best effort:
// failures are logged and never fail the request that caused them.
type WordEventPublisher interface {
	WordCreated(ctx context.Context, w *model.Word, userID string)
}

// WordCreatedEvent is the payload published when a new catalog word is minted.
type WordCreatedEvent struct {
	EventType    string      `json:"event_type"`
	WordID       string      `json:"word_id"`
	WordName     string      `json:"word_name"`
	LanguageCode string      `json:"language_code"`
	Level        model.Level `json:"level"`
	UserID       string      `json:"user_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type wordEventPublisher struct {
	publisher pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

// NewWordEventPublisher publishes word events to topic.
func NewWordEventPublisher(publisher pubsub.Publisher, topic string, logger zerolog.Logger) WordEventPublisher {
	return &wordEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "WordEventPublisher").Logger(),
	}
}

func (p *wordEventPublisher) WordCreated(ctx context.Context, w *model.Word, userID string) {
	payload, err := json.Marshal(WordCreatedEvent{
		EventType:    eventWordCreated,
		WordID:       w.WordID,
		WordName:     w.WordName,
		LanguageCode: w.LanguageCode,
		Level:        w.Level,
		UserID:       userID,
		CreatedAt:    w.CreatedAt,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("word_id", w.WordID).Msg("Failed to marshal word event")
		return
	}

	// The request may finish before the publish does.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	attrs := map[string]string{eventTypeAttribute: eventWordCreated, languageAttribute: w.LanguageCode}
	if _, err := p.publisher.Publish(pubCtx, p.topic, payload, attrs); err != nil {
		p.logger.Warn().Err(err).Str("word_id", w.WordID).Str("topic", p.topic).Msg("Failed to publish word event")
	}
}
