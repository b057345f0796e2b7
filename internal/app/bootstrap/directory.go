package bootstrap

import (
	"context"

	"github.com/wolfman30/clinicdesk/internal/auth"
	"github.com/wolfman30/clinicdesk/internal/reminders"
)

// UserDirectory resolves reminder recipients from the staff user store.
type UserDirectory struct {
	users auth.UserStore
}

// NewUserDirectory wraps a user store.
func NewUserDirectory(users auth.UserStore) *UserDirectory {
	return &UserDirectory{users: users}
}

// Recipient implements reminders.RecipientLookup.
func (d *UserDirectory) Recipient(ctx context.Context, userID string) (*reminders.Recipient, error) {
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &reminders.Recipient{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}
