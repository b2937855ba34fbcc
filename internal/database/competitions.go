package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ListCompetitions returns all competitions, most recent start date first.
func (db *DB) ListCompetitions(ctx context.Context) ([]Competition, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT competition_id, name, start_date, end_date, city, country, competition_type
		FROM competitions ORDER BY start_date DESC NULLS LAST, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	defer rows.Close()

	var competitions []Competition
	for rows.Next() {
		var c Competition
		if err := rows.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.City, &c.Country, &c.Type); err != nil {
			return nil, fmt.Errorf("failed to scan competition: %w", err)
		}
		competitions = append(competitions, c)
	}
	return competitions, rows.Err()
}

// GetCompetition retrieves a competition by ID, returning nil when absent.
func (db *DB) GetCompetition(ctx context.Context, id int) (*Competition, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	c := &Competition{}
	err = pool.QueryRow(ctx, `
		SELECT competition_id, name, start_date, end_date, city, country, competition_type
		FROM competitions WHERE competition_id = $1
	`, id).Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.City, &c.Country, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return c, nil
}

// CreateCompetition inserts a new competition and fills in its ID.
func (db *DB) CreateCompetition(ctx context.Context, c *Competition) error {
	pool, err := db.activePool()
	if err != nil {
		return err
	}

	err = pool.QueryRow(ctx, `
		INSERT INTO competitions (name, start_date, end_date, city, country, competition_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING competition_id
	`, c.Name, c.StartDate, c.EndDate, c.City, c.Country, c.Type).Scan(&c.ID)
	if err != nil {
		return wrapIntegrity(err)
	}
	return nil
}

// UpdateCompetition replaces the mutable fields of a competition. Returns
// false when the competition does not exist.
func (db *DB) UpdateCompetition(ctx context.Context, c *Competition) (bool, error) {
	pool, err := db.activePool()
	if err != nil {
		return false, err
	}

	tag, err := pool.Exec(ctx, `
		UPDATE competitions
		SET name = $1, start_date = $2, end_date = $3, city = $4, country = $5, competition_type = $6
		WHERE competition_id = $7
	`, c.Name, c.StartDate, c.EndDate, c.City, c.Country, c.Type, c.ID)
	if err != nil {
		return false, wrapIntegrity(err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCompetition removes a competition and all of its records in the same
// transaction. As with DeleteSwimmer, the records go through an explicit
// counted statement so the reported count is exact. Returns the number of
// deleted records and whether the competition existed.
func (db *DB) DeleteCompetition(ctx context.Context, id int) (cascaded int64, found bool, err error) {
	err = db.WithSession(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "DELETE FROM records WHERE competition_id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete competition records: %w", err)
		}
		cascaded = tag.RowsAffected()

		tag, err = tx.Exec(ctx, "DELETE FROM competitions WHERE competition_id = $1", id)
		if err != nil {
			return wrapIntegrity(err)
		}
		found = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if !found {
		cascaded = 0
	}
	return cascaded, found, nil
}
