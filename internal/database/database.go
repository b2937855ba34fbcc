package database

import (
	"context"
	"fmt"
	"sync"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	pgxzerolog "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog/log"

	"github.com/aqualytics/aqualytics/internal/config"
)

// DB owns the single PostgreSQL connection pool for the process. It is
// constructed once at startup and handed to every component that needs
// sessions; there is no package-level instance.
type DB struct {
	cfg config.Config

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// New creates a pool manager for the given configuration. No connection is
// made until Open is called.
func New(cfg config.Config) *DB {
	return &DB{cfg: cfg}
}

// Open establishes the connection pool. It is idempotent: if the pool is
// already open, the existing pool is returned without reconnecting.
//
// The pool is bounded at pool size + max overflow connections, recycles
// connections past the configured age, and pings every connection before
// handing it to a caller so that dead connections are discarded and
// replaced transparently.
func (db *DB) Open(ctx context.Context) (*pgxpool.Pool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		return db.pool, nil
	}

	dsn, err := db.cfg.DSN()
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &config.ConfigError{Reason: fmt.Sprintf("invalid connection string: %v", err)}
	}

	poolCfg.MaxConns = int32(db.cfg.PoolSize + db.cfg.MaxOverflow)
	poolCfg.MinConns = int32(db.cfg.PoolSize)
	poolCfg.MaxConnLifetime = db.cfg.PoolRecycle
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "aqualytics"

	// Exact NUMERIC round-trips for record values.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	// Pre-use liveness validation: a dead connection is rejected here and
	// destroyed by the pool, which dials a replacement.
	poolCfg.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		return conn.Ping(ctx) == nil
	}

	if db.cfg.EchoSQL {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzerolog.NewLogger(log.Logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug().
		Int("pool_size", db.cfg.PoolSize).
		Int("max_overflow", db.cfg.MaxOverflow).
		Dur("recycle", db.cfg.PoolRecycle).
		Msg("Database connection pool established")

	db.pool = pool
	return db.pool, nil
}

// HealthCheck executes a trivial round-trip query against a live connection
// and reports success. It never returns an error: any failure, including an
// unopened pool, is logged and reported as false.
func (db *DB) HealthCheck(ctx context.Context) bool {
	db.mu.Lock()
	pool := db.pool
	db.mu.Unlock()

	if pool == nil {
		log.Error().Msg("Health check failed: pool not opened")
		return false
	}

	var one int
	if err := pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		return false
	}
	return one == 1
}

// Close releases every pooled connection and clears internal state so a
// subsequent Open starts clean. Safe to call repeatedly, or before Open.
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool == nil {
		return
	}
	db.pool.Close()
	db.pool = nil
	log.Debug().Msg("Database connection pool closed")
}

// Stat reports pool counters for maintenance logging. Returns nil when the
// pool is not open.
func (db *DB) Stat() *pgxpool.Stat {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool == nil {
		return nil
	}
	return db.pool.Stat()
}

// Startup opens the pool, applies pending migrations and verifies
// connectivity. Process start should hard-fail when it returns an error.
func (db *DB) Startup(ctx context.Context) error {
	if _, err := db.Open(ctx); err != nil {
		return err
	}
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	if !db.HealthCheck(ctx) {
		db.Close()
		return fmt.Errorf("database health check failed")
	}
	return nil
}

// Shutdown closes the pool. A fresh Startup is possible afterwards, which
// tests rely on.
func (db *DB) Shutdown() {
	db.Close()
}
