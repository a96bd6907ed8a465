package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fleetflow/backend/internal/service"
)

// TokenVerifier validates a bearer token and returns its claims.
// Satisfied by *service.AuthService.
type TokenVerifier interface {
	Verify(token string) (service.Claims, error)
}

type contextKey struct{}

var claimsKey contextKey

// ClaimsFrom returns the authenticated claims stored by RequireAuth.
// The second return is false on requests that never passed through it.
func ClaimsFrom(ctx context.Context) (service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(service.Claims)
	return claims, ok
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token and stores the verified claims in the request context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": message},
	})
}
