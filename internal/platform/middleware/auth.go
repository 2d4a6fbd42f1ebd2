package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"rentwise/internal/platform/jwt"
	dErrors "rentwise/pkg/domain-errors"
	"rentwise/pkg/platform/httputil"
	"rentwise/pkg/requestcontext"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject as the owner id.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeAuthenticationRequired, "missing or invalid authorization header"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeAuthenticationRequired, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithOwnerID(ctx, claims.OwnerID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
