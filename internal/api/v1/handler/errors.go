package handler

import (
	"context"
	"errors"

	apperr "github.com/fadonmez/backend/internal/errors"
	"github.com/fadonmez/backend/internal/middleware"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// Helper to extract user ID from context (injected by auth middleware)
func getUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("User ID not found in context")
	}
	return userID, nil
}

// toHumaError maps domain errors to their HTTP status. Anything else is logged
// and reported as a 500 with msg, without leaking the cause.
func toHumaError(logger zerolog.Logger, err error, msg string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return huma.NewError(appErr.HTTPStatus(), appErr.Message, &huma.ErrorDetail{
			Location: "code",
			Value:    appErr.Code,
			Message:  string(appErr.Code),
		})
	}
	logger.Error().Err(err).Msg(msg)
	return huma.Error500InternalServerError(msg)
}
