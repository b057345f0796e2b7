package middleware

import (
	"net/http"
	"strings"

	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/identity"
)

// TokenParser verifies a bearer token and returns the user id it carries.
type TokenParser interface {
	Parse(raw string) (string, error)
}

// RequireUser rejects requests without a valid bearer token and stores the
// token's user id in the request context.
func RequireUser(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				apperr.WriteError(w, apperr.ErrUnauthenticated)
				return
			}
			userID, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				apperr.WriteError(w, apperr.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithUserID(r.Context(), userID)))
		})
	}
}
