package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk/pkg/logging"
	"golang.org/x/crypto/bcrypt"
)

// Service registers and signs in staff users.
type Service struct {
	users   UserStore
	tokens  *Tokens
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
	cost    int
}

// NewService creates an auth service.
func NewService(users UserStore, tokens *Tokens, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{users: users, tokens: tokens, metrics: m, logger: logger, cost: bcrypt.DefaultCost}
}

// Register creates a user and returns a fresh token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	if err := req.validate(); err != nil {
		s.metrics.ObserveAuth("register", "invalid")
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &User{
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			s.metrics.ObserveAuth("register", "conflict")
		}
		return nil, err
	}

	s.metrics.ObserveAuth("register", "success")
	s.logger.Info("auth: user registered", "user_id", u.ID)
	return s.issue(u)
}

// Login checks credentials and returns a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		s.metrics.ObserveAuth("login", "failure")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.metrics.ObserveAuth("login", "failure")
		s.logger.Warn("auth: login rejected", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	s.metrics.ObserveAuth("login", "success")
	return s.issue(u)
}

// User returns the user for id.
func (s *Service) User(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, apperr.ErrUnauthenticated
	}
	return s.users.GetByID(ctx, id)
}

func (s *Service) issue(u *User) (*TokenResponse, error) {
	token, expires, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, ExpiresAt: expires, User: u}, nil
}
