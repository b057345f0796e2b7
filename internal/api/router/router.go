package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/clinicdesk/internal/auth"
	"github.com/wolfman30/clinicdesk/internal/birthdays"
	"github.com/wolfman30/clinicdesk/internal/contact"
	"github.com/wolfman30/clinicdesk/internal/health"
	httpmiddleware "github.com/wolfman30/clinicdesk/internal/http/middleware"
	"github.com/wolfman30/clinicdesk/internal/patients"
	"github.com/wolfman30/clinicdesk/internal/reminders"
	"github.com/wolfman30/clinicdesk/internal/waitlist"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Health             *health.Handler
	Auth               *auth.Handler
	Contacts           *contact.Handler
	Patients           *patients.Handler
	Waitlist           *waitlist.Handler
	Reminders          *reminders.Handler
	Birthdays          *birthdays.Handler
	Tokens             httpmiddleware.TokenParser
	AuthRateLimiter    *httpmiddleware.RateLimiter
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	// Public endpoints
	r.Group(func(public chi.Router) {
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.Health)
			public.Get("/ready", cfg.Health.Ready)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Auth != nil {
			public.Group(func(r chi.Router) {
				if cfg.AuthRateLimiter != nil {
					r.Use(httpmiddleware.RateLimit(cfg.AuthRateLimiter))
				}
				cfg.Auth.RegisterPublicRoutes(r)
			})
		}
	})

	// Everything else needs a signed-in user
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.RequireUser(cfg.Tokens))
		if cfg.Auth != nil {
			cfg.Auth.RegisterRoutes(private)
		}
		if cfg.Contacts != nil {
			private.Post("/contacts/validate", cfg.Contacts.Validate)
		}
		if cfg.Patients != nil {
			cfg.Patients.RegisterRoutes(private)
		}
		if cfg.Waitlist != nil {
			cfg.Waitlist.RegisterRoutes(private)
		}
		if cfg.Reminders != nil {
			cfg.Reminders.RegisterRoutes(private)
		}
		if cfg.Birthdays != nil {
			cfg.Birthdays.RegisterRoutes(private)
		}
	})

	return r
}
