package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ListSwimmers returns all swimmers ordered by name.
func (db *DB) ListSwimmers(ctx context.Context) ([]Swimmer, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT swimmer_id, name, age, weight, team, category
		FROM swimmers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list swimmers: %w", err)
	}
	defer rows.Close()

	var swimmers []Swimmer
	for rows.Next() {
		var s Swimmer
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Weight, &s.Team, &s.Category); err != nil {
			return nil, fmt.Errorf("failed to scan swimmer: %w", err)
		}
		swimmers = append(swimmers, s)
	}
	return swimmers, rows.Err()
}

// GetSwimmer retrieves a swimmer by ID, returning nil when absent.
func (db *DB) GetSwimmer(ctx context.Context, id int) (*Swimmer, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	s := &Swimmer{}
	err = pool.QueryRow(ctx, `
		SELECT swimmer_id, name, age, weight, team, category
		FROM swimmers WHERE swimmer_id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Age, &s.Weight, &s.Team, &s.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get swimmer: %w", err)
	}
	return s, nil
}

// CreateSwimmer inserts a new swimmer and fills in its ID.
func (db *DB) CreateSwimmer(ctx context.Context, s *Swimmer) error {
	pool, err := db.activePool()
	if err != nil {
		return err
	}

	err = pool.QueryRow(ctx, `
		INSERT INTO swimmers (name, age, weight, team, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING swimmer_id
	`, s.Name, s.Age, s.Weight, s.Team, s.Category).Scan(&s.ID)
	if err != nil {
		return wrapIntegrity(err)
	}
	return nil
}

// UpdateSwimmer replaces the mutable fields of a swimmer. Returns false when
// the swimmer does not exist.
func (db *DB) UpdateSwimmer(ctx context.Context, s *Swimmer) (bool, error) {
	pool, err := db.activePool()
	if err != nil {
		return false, err
	}

	tag, err := pool.Exec(ctx, `
		UPDATE swimmers
		SET name = $1, age = $2, weight = $3, team = $4, category = $5
		WHERE swimmer_id = $6
	`, s.Name, s.Age, s.Weight, s.Team, s.Category, s.ID)
	if err != nil {
		return false, wrapIntegrity(err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteSwimmer removes a swimmer and all of its records in the same
// transaction. The records are removed with an explicit counted statement,
// so the reported count is exactly what this transaction deleted; the
// schema's CASCADE covers the same rows. Returns the number of deleted
// records and whether the swimmer existed.
func (db *DB) DeleteSwimmer(ctx context.Context, id int) (cascaded int64, found bool, err error) {
	err = db.WithSession(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "DELETE FROM records WHERE swimmer_id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete swimmer records: %w", err)
		}
		cascaded = tag.RowsAffected()

		tag, err = tx.Exec(ctx, "DELETE FROM swimmers WHERE swimmer_id = $1", id)
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
