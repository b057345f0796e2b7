package identity

import (
	"context"
	"testing"
)

func TestWithUserIDAndUserIDFromContext(t *testing.T) {
	ctx := WithUserID(context.Background(), " user-123 ")

	got, ok := UserIDFromContext(ctx)
	if !ok {
		t.Fatalf("expected user id to be present")
	}
	if got != "user-123" {
		t.Fatalf("expected user-123, got %q", got)
	}
}

func TestUserIDFromContext_EmptyOrMissing(t *testing.T) {
	ctx := context.Background()
	if _, ok := UserIDFromContext(ctx); ok {
		t.Fatalf("expected missing user id to return false")
	}

	ctx = context.WithValue(ctx, userKey, 42)
	if _, ok := UserIDFromContext(ctx); ok {
		t.Fatalf("expected non-string user id to return false")
	}

	ctx = WithUserID(context.Background(), "   ")
	if _, ok := UserIDFromContext(ctx); ok {
		t.Fatalf("expected blank user id to return false")
	}
}
