package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/contact"
)

const minPasswordLength = 8

var (
	// ErrUserNotFound is returned when no user matches an id or email.
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
)

// User is a staff member who can sign in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned after a successful register or login.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r RegisterRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Invalid("name is required")
	}
	if !contact.IsValidEmail(r.Email) {
		return apperr.Invalid("%s", contact.MsgInvalidEmail)
	}
	if len([]rune(r.Password)) < minPasswordLength {
		return apperr.Invalid("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
