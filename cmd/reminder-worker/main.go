package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinicdesk/internal/app/bootstrap"
	"github.com/wolfman30/clinicdesk/internal/birthdays"
	appconfig "github.com/wolfman30/clinicdesk/internal/config"
	"github.com/wolfman30/clinicdesk/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk/internal/reminders"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat).With("component", "reminder-worker")
	logger.Info("starting reminder worker",
		"env", cfg.Env,
		"interval", cfg.ReminderWorkerInterval.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.BuildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()
	warnOnLocalStorage(cfg, logger)

	sender, err := bootstrap.BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email sender", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	clinicMetrics := metrics.NewClinicMetrics(reg)
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	leapPolicy, err := birthdays.ParseLeapPolicy(cfg.BirthdayLeapPolicy)
	if err != nil {
		logger.Warn("unknown birthday leap policy, using strict", "value", cfg.BirthdayLeapPolicy)
		leapPolicy = birthdays.LeapStrict
	}

	worker := reminders.NewWorker(stores.Reminders, sender, bootstrap.NewUserDirectory(stores.Users),
		clinicMetrics, cfg.Location(), cfg.ReminderWorkerInterval, logger)
	digest := birthdays.NewDigest(birthdays.NewService(stores.Patients, leapPolicy, clinicMetrics, logger),
		sender, cfg.BirthdayDigestRecipients, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	if len(cfg.BirthdayDigestRecipients) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			digest.Run(ctx, cfg.Location(), cfg.BirthdayDigestHour)
		}()
	} else {
		logger.Info("birthday digest disabled: no recipients configured")
	}

	<-ctx.Done()
	logger.Info("shutting down reminder worker...")
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	logger.Info("reminder worker stopped")
}

// warnOnLocalStorage reports whether the worker is running against process
// memory, where nothing the API writes will ever show up.
func warnOnLocalStorage(cfg *appconfig.Config, logger *logging.Logger) bool {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		return false
	}
	logger.Warn("DATABASE_URL not set: reminder worker is polling in-memory stores the API cannot write to")
	return true
}
