package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "CLINIC_TIMEZONE", "BIRTHDAY_LEAP_POLICY",
		"RECENT_PATIENTS_LIMIT", "REMINDER_WORKER_INTERVAL", "EMAIL_PROVIDER", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.ClinicTimezone != "Europe/Lisbon" {
		t.Fatalf("expected default timezone, got %s", cfg.ClinicTimezone)
	}
	if cfg.BirthdayLeapPolicy != "strict" {
		t.Fatalf("expected strict leap policy, got %s", cfg.BirthdayLeapPolicy)
	}
	if cfg.RecentPatientsLimit != 5 {
		t.Fatalf("expected recent patients limit 5, got %d", cfg.RecentPatientsLimit)
	}
	if cfg.ReminderWorkerInterval != time.Minute {
		t.Fatalf("expected default worker interval, got %s", cfg.ReminderWorkerInterval)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected stub email provider, got %s", cfg.EmailProvider)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("BIRTHDAY_LEAP_POLICY", " Feb28 ")
	t.Setenv("REMINDER_WORKER_INTERVAL", "30s")
	t.Setenv("AUTH_RATE_LIMIT_RPS", "2.5")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("BIRTHDAY_DIGEST_RECIPIENTS", "front@clinic.pt, ,owner@clinic.pt")
	t.Setenv("RECENT_PATIENTS_LIMIT", "not-a-number")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.BirthdayLeapPolicy != "feb28" {
		t.Fatalf("expected normalized leap policy, got %q", cfg.BirthdayLeapPolicy)
	}
	if cfg.ReminderWorkerInterval != 30*time.Second {
		t.Fatalf("expected worker interval override, got %s", cfg.ReminderWorkerInterval)
	}
	if cfg.AuthRateLimitRPS != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.AuthRateLimitRPS)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected token ttl override, got %s", cfg.TokenTTL)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected ses provider, got %s", cfg.EmailProvider)
	}
	if len(cfg.BirthdayDigestRecipients) != 2 || cfg.BirthdayDigestRecipients[1] != "owner@clinic.pt" {
		t.Fatalf("unexpected digest recipients %v", cfg.BirthdayDigestRecipients)
	}
	if cfg.RecentPatientsLimit != 5 {
		t.Fatalf("expected invalid int to fall back, got %d", cfg.RecentPatientsLimit)
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{ClinicTimezone: "Europe/Lisbon"}
	if cfg.Location().String() != "Europe/Lisbon" {
		t.Fatalf("expected Lisbon, got %s", cfg.Location())
	}
	cfg.ClinicTimezone = "Nowhere/Special"
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
	var nilCfg *Config
	if nilCfg.Location() != time.UTC {
		t.Fatalf("expected UTC for nil config")
	}
}
