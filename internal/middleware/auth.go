package middleware

import (
	"net/http"
	"strings"

	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/auth"
)

// RequireAuth validates the bearer token and injects the verified claims
// into the request context. Requests without a valid token are rejected.
func RequireAuth(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				api.Error(w, apperr.Auth("missing authorization header"))
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				api.Error(w, apperr.Auth("authorization header must be: Bearer <token>"))
				return
			}

			claims, err := tokens.Verify(r.Context(), parts[1])
			if err != nil {
				api.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
