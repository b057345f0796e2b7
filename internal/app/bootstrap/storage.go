package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/wolfman30/clinicdesk/internal/auth"
	appconfig "github.com/wolfman30/clinicdesk/internal/config"
	"github.com/wolfman30/clinicdesk/internal/patients"
	"github.com/wolfman30/clinicdesk/internal/reminders"
	"github.com/wolfman30/clinicdesk/internal/waitlist"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Stores groups the repositories used by the API and the worker.
type Stores struct {
	Patients  patients.Repository
	Waitlist  waitlist.Repository
	Reminders reminders.Store
	Users     auth.UserStore

	// Pool and SQL are nil for in-memory stores.
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

// Close releases database connections.
func (s *Stores) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.SQL != nil {
		_ = s.SQL.Close()
	}
}

// BuildStores connects to Postgres when DATABASE_URL is set. Without it every
// store lives in process memory, which is only suitable for development.
func BuildStores(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*Stores, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		return &Stores{
			Patients:  patients.NewInMemoryRepository(),
			Waitlist:  waitlist.NewInMemoryRepository(),
			Reminders: reminders.NewInMemoryStore(),
			Users:     auth.NewInMemoryUserStore(),
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}

	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: open sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	logger.Info("connected to postgres")
	return &Stores{
		Patients:  patients.NewPostgresRepository(pool),
		Waitlist:  waitlist.NewPostgresRepository(sqlDB),
		Reminders: reminders.NewPostgresStore(pool),
		Users:     auth.NewPostgresUserStore(pool),
		Pool:      pool,
		SQL:       sqlDB,
	}, nil
}
