// Package identity carries the authenticated staff identity through a request.
package identity

import (
	"context"
	"strings"
)

type ctxKey string

const userKey ctxKey = "clinicdesk.user_id"

// WithUserID stores the acting user's id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, strings.TrimSpace(userID))
}

// UserIDFromContext returns the acting user's id. ok is false when the request
// is unauthenticated.
func UserIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}
