package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"
)

// PubSubAuthMiddleware verifies the OIDC token Pub/Sub attaches to push requests
// and checks that it was minted for the expected service account.
// Verification is skipped when isLocalDev is true.
func PubSubAuthMiddleware(isLocalDev bool, audience, expectedEmail string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLocalDev {
				next.ServeHTTP(w, r)
				return
			}
			if audience == "" || expectedEmail == "" {
				logger.Error().Msg("Pub/Sub push auth has no audience or service account configured")
				http.Error(w, "Pub/Sub push auth not configured", http.StatusInternalServerError)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			payload, err := idtoken.Validate(r.Context(), token, audience)
			if err != nil {
				logger.Warn().Err(err).Msg("Rejected Pub/Sub push token")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if email, _ := payload.Claims["email"].(string); email != expectedEmail {
				logger.Warn().Str("token_email", email).Msg("Pub/Sub push token from unexpected service account")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
