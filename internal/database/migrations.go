package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Migrate applies all pending schema migrations. Each migration runs in its
// own transaction together with the bookkeeping row, so a failed migration
// leaves no partial DDL behind.
func (db *DB) Migrate(ctx context.Context) error {
	db.mu.Lock()
	pool := db.pool
	db.mu.Unlock()

	if pool == nil {
		return ErrNotInitialized
	}

	log.Info().Msg("Running database migrations")

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	log.Debug().Int("current_version", currentVersion).Msg("Current schema version")

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		log.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applying migration")

		err := db.WithSession(ctx, func(ctx context.Context, tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.Version, err)
			}
			if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations complete")
	return nil
}

type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "reference_catalogs",
		SQL: `
			CREATE TABLE distances (
				distance_id SERIAL PRIMARY KEY,
				distance INTEGER NOT NULL UNIQUE
			);

			CREATE TABLE strokes (
				stroke_id SERIAL PRIMARY KEY,
				stroke VARCHAR(50) NOT NULL UNIQUE
			);

			CREATE TABLE phases (
				phase_id SERIAL PRIMARY KEY,
				phase VARCHAR(50) NOT NULL UNIQUE
			);

			CREATE TABLE parameters (
				parameter_id SERIAL PRIMARY KEY,
				parameter VARCHAR(100) NOT NULL UNIQUE,
				kind CHAR(1) NOT NULL CHECK (kind IN ('M', 'A')),
				is_global BOOLEAN NOT NULL DEFAULT FALSE,
				description TEXT,
				unit VARCHAR(20)
			);
		`,
	},
	{
		Version: 2,
		Name:    "swimmers_competitions_records",
		SQL: `
			CREATE TABLE swimmers (
				swimmer_id SERIAL PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				age SMALLINT,
				weight SMALLINT,
				team VARCHAR(100),
				category VARCHAR(50)
			);

			CREATE TABLE competitions (
				competition_id SERIAL PRIMARY KEY,
				name VARCHAR(200) NOT NULL,
				start_date DATE,
				end_date DATE,
				city VARCHAR(100),
				country VARCHAR(100),
				competition_type VARCHAR(50)
			);

			CREATE TABLE records (
				record_id BIGSERIAL PRIMARY KEY,
				competition_id INTEGER NOT NULL REFERENCES competitions (competition_id) ON DELETE CASCADE,
				swimmer_id INTEGER NOT NULL REFERENCES swimmers (swimmer_id) ON DELETE CASCADE,
				distance_id INTEGER NOT NULL REFERENCES distances (distance_id) ON DELETE RESTRICT,
				stroke_id INTEGER NOT NULL REFERENCES strokes (stroke_id) ON DELETE RESTRICT,
				phase_id INTEGER NOT NULL REFERENCES phases (phase_id) ON DELETE RESTRICT,
				parameter_id INTEGER NOT NULL REFERENCES parameters (parameter_id) ON DELETE RESTRICT,
				record_date DATE,
				segment INTEGER,
				value NUMERIC(10, 3) NOT NULL,
				note VARCHAR(500),
				validated BOOLEAN NOT NULL DEFAULT TRUE
			);
		`,
	},
	{
		Version: 3,
		Name:    "record_lookup_indexes",
		SQL: `
			CREATE INDEX idx_records_swimmer ON records (swimmer_id);
			CREATE INDEX idx_records_competition ON records (competition_id);
			CREATE INDEX idx_records_parameter ON records (parameter_id);
		`,
	},
}
