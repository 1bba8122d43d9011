package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtutil "github.com/ddipendrac/mystery-message/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware validates the Bearer token and stores the session claims in
// the request context for downstream handlers.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				unauthorized(w)
				return
			}

			claims, err := jwtutil.ParseToken(token, secret)
			if err != nil {
				log.WithError(err).Warn("Rejected request with invalid token")
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// WithUser attaches session claims to a context.
func WithUser(ctx context.Context, claims *jwtutil.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// GetUserFromContext returns the session claims attached by AuthMiddleware,
// or nil when the request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(userContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractBearer(r *http.Request) string {
	value := r.Header.Get("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Not authenticated",
	})
}
