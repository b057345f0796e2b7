package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/clinicdesk/internal/config"
	"github.com/wolfman30/clinicdesk/internal/patients"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRecentStore keeps recently viewed patients in Redis when a client is
// available and in process memory otherwise.
func BuildRecentStore(client *redis.Client, cfg *appconfig.Config, logger *logging.Logger) patients.RecentStore {
	if logger == nil {
		logger = logging.Default()
	}
	limit := patients.DefaultRecentLimit
	if cfg != nil && cfg.RecentPatientsLimit > 0 {
		limit = cfg.RecentPatientsLimit
	}
	if client == nil {
		logger.Info("recent patients kept in memory", "limit", limit)
		return patients.NewMemoryRecentStore(limit)
	}
	logger.Info("recent patients kept in redis", "limit", limit)
	return patients.NewRedisRecentStore(client, limit)
}
