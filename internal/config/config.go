package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	LogFormat   string
	DatabaseURL string

	// Auth
	JWTSecret        string
	TokenTTL         time.Duration
	AuthRateLimitRPS float64
	AuthRateBurst    int

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Clinic behaviour
	ClinicTimezone         string
	BirthdayLeapPolicy     string
	RecentPatientsLimit    int
	ReminderWorkerInterval time.Duration
	BirthdayDigestHour     int

	// Email delivery
	EmailProvider            string
	EmailFromAddress         string
	EmailFromName            string
	BirthdayDigestRecipients []string
	SendGridAPIKey           string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenTTL:         getEnvAsDuration("TOKEN_TTL", 12*time.Hour),
		AuthRateLimitRPS: getEnvAsFloat("AUTH_RATE_LIMIT_RPS", 1),
		AuthRateBurst:    getEnvAsInt("AUTH_RATE_LIMIT_BURST", 5),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		ClinicTimezone:         getEnv("CLINIC_TIMEZONE", "Europe/Lisbon"),
		BirthdayLeapPolicy:     strings.ToLower(strings.TrimSpace(getEnv("BIRTHDAY_LEAP_POLICY", "strict"))),
		RecentPatientsLimit:    getEnvAsInt("RECENT_PATIENTS_LIMIT", 5),
		ReminderWorkerInterval: getEnvAsDuration("REMINDER_WORKER_INTERVAL", time.Minute),
		BirthdayDigestHour:     getEnvAsInt("BIRTHDAY_DIGEST_HOUR", 8),

		EmailProvider:            strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Clinic Desk"),
		BirthdayDigestRecipients: getEnvAsList("BIRTHDAY_DIGEST_RECIPIENTS"),
		SendGridAPIKey:           getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:           getEnv("AWS_REGION", "eu-west-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Location resolves ClinicTimezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	if c == nil || c.ClinicTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
