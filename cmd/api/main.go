package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinicdesk/internal/api/router"
	"github.com/wolfman30/clinicdesk/internal/app/bootstrap"
	"github.com/wolfman30/clinicdesk/internal/auth"
	"github.com/wolfman30/clinicdesk/internal/birthdays"
	appconfig "github.com/wolfman30/clinicdesk/internal/config"
	"github.com/wolfman30/clinicdesk/internal/contact"
	"github.com/wolfman30/clinicdesk/internal/health"
	httpmiddleware "github.com/wolfman30/clinicdesk/internal/http/middleware"
	"github.com/wolfman30/clinicdesk/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk/internal/patients"
	"github.com/wolfman30/clinicdesk/internal/reminders"
	"github.com/wolfman30/clinicdesk/internal/waitlist"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting clinicdesk API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()
	stores, err := bootstrap.BuildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	metricsHandler, clinicMetrics := setupMetrics()

	checks := map[string]health.Check{}
	if stores.SQL != nil {
		checks["database"] = health.DatabaseCheck(stores.SQL)
	}
	if redisClient != nil {
		checks["redis"] = health.RedisCheck(redisClient)
	}

	r := router.New(buildRouterConfig(cfg, logger, stores, bootstrap.BuildRecentStore(redisClient, cfg, logger), clinicMetrics, metricsHandler, checks))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// setupMetrics registers the clinic collectors plus the Go runtime ones on a
// dedicated registry and returns the /metrics handler.
func setupMetrics() (http.Handler, *metrics.ClinicMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewClinicMetrics(reg)
}

func buildRouterConfig(
	cfg *appconfig.Config,
	logger *logging.Logger,
	stores *bootstrap.Stores,
	recent patients.RecentStore,
	clinicMetrics *metrics.ClinicMetrics,
	metricsHandler http.Handler,
	checks map[string]health.Check,
) *router.Config {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	leapPolicy, err := birthdays.ParseLeapPolicy(cfg.BirthdayLeapPolicy)
	if err != nil {
		logger.Warn("unknown birthday leap policy, using strict", "value", cfg.BirthdayLeapPolicy)
		leapPolicy = birthdays.LeapStrict
	}

	waitlistSvc := waitlist.NewService(stores.Waitlist, stores.Patients, logger)
	reminderSvc := reminders.NewService(stores.Reminders, waitlistSvc, bootstrap.NewUserDirectory(stores.Users), clinicMetrics, logger)
	birthdaySvc := birthdays.NewService(stores.Patients, leapPolicy, clinicMetrics, logger)

	return &router.Config{
		Logger:             logger,
		Health:             health.NewHandler(checks, logger),
		Auth:               auth.NewHandler(auth.NewService(stores.Users, tokens, clinicMetrics, logger), logger),
		Contacts:           contact.NewHandler(logger),
		Patients:           patients.NewHandler(stores.Patients, recent, logger),
		Waitlist:           waitlist.NewHandler(waitlistSvc, logger),
		Reminders:          reminders.NewHandler(reminderSvc, logger),
		Birthdays:          birthdays.NewHandler(birthdaySvc, cfg.Location(), logger),
		Tokens:             tokens,
		AuthRateLimiter:    httpmiddleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateBurst),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
}
