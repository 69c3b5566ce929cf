package handler

import (
	"context"
	"errors"

	"github.com/fadonmez/backend/internal/api/v1/operation"
	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/service"

	"github.com/rs/zerolog"
)

// DLQHandler receives word events that exhausted their delivery attempts.
type DLQHandler struct {
	service service.DLQService
	logger  zerolog.Logger
}

func NewDLQHandler(s service.DLQService, l zerolog.Logger) *DLQHandler {
	return &DLQHandler{service: s, logger: l}
}

// RecordDLQ stores a dead-lettered push. Storage failures are acknowledged
// anyway, since Pub/Sub would only redeliver a message that is already dead.
func (h *DLQHandler) RecordDLQ(ctx context.Context, input *operation.RecordDLQInput) (*operation.RecordDLQOutput, error) {
	err := h.service.ProcessAndSave(ctx, &input.Body)
	if errors.Is(err, apperr.ErrValidation) {
		return nil, toHumaError(h.logger, err, "Invalid Pub/Sub push")
	}
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", input.Body.Message.MessageID).Msg("Dropping dead-lettered message")
	}
	return &operation.RecordDLQOutput{}, nil
}
