package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aqualytics/aqualytics/internal/config"
)

func unopenedDB() *DB {
	return New(config.Config{
		DatabaseURL: "postgresql://u:p@localhost:5432/unused",
		PoolSize:    2,
		MaxOverflow: 2,
		PoolTimeout: time.Second,
		PoolRecycle: time.Hour,
	})
}

func TestWithSessionBeforeOpen(t *testing.T) {
	db := unopenedDB()

	err := db.WithSession(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		t.Fatal("work must not run without an open pool")
		return nil
	})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestCloseBeforeOpenIsSafe(t *testing.T) {
	db := unopenedDB()
	db.Close()
	db.Close()
	db.Shutdown()
}

func TestHealthCheckBeforeOpenReturnsFalse(t *testing.T) {
	db := unopenedDB()
	if db.HealthCheck(context.Background()) {
		t.Fatal("health check must report false on an unopened pool")
	}
}

func TestStatBeforeOpenIsNil(t *testing.T) {
	db := unopenedDB()
	if db.Stat() != nil {
		t.Fatal("stats must be nil on an unopened pool")
	}
}

func TestMigrateBeforeOpen(t *testing.T) {
	db := unopenedDB()
	if err := db.Migrate(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRepositoriesBeforeOpen(t *testing.T) {
	db := unopenedDB()
	ctx := context.Background()

	if _, err := db.ListSwimmers(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListSwimmers: expected ErrNotInitialized, got %v", err)
	}
	if _, err := db.ListDistances(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListDistances: expected ErrNotInitialized, got %v", err)
	}
	if err := db.CreateRecord(ctx, &Record{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateRecord: expected ErrNotInitialized, got %v", err)
	}
}
