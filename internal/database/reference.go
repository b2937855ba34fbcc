package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reference catalogs are shared across unrelated records, so deleting a row
// that is still referenced is restricted by the schema and surfaces as an
// IntegrityError here. Duplicate natural keys surface the same way.

func (db *DB) activePool() (*pgxpool.Pool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool == nil {
		return nil, ErrNotInitialized
	}
	return db.pool, nil
}

// ListDistances returns all distances ordered by meters.
func (db *DB) ListDistances(ctx context.Context) ([]Distance, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, "SELECT distance_id, distance FROM distances ORDER BY distance")
	if err != nil {
		return nil, fmt.Errorf("failed to list distances: %w", err)
	}
	defer rows.Close()

	var distances []Distance
	for rows.Next() {
		var d Distance
		if err := rows.Scan(&d.ID, &d.Meters); err != nil {
			return nil, fmt.Errorf("failed to scan distance: %w", err)
		}
		distances = append(distances, d)
	}
	return distances, rows.Err()
}

// GetDistance retrieves a distance by ID, returning nil when absent.
func (db *DB) GetDistance(ctx context.Context, id int) (*Distance, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	d := &Distance{}
	err = pool.QueryRow(ctx, "SELECT distance_id, distance FROM distances WHERE distance_id = $1", id).
		Scan(&d.ID, &d.Meters)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distance: %w", err)
	}
	return d, nil
}

// CreateDistance inserts a new distance catalog row.
func (db *DB) CreateDistance(ctx context.Context, meters int) (*Distance, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	d := &Distance{Meters: meters}
	err = pool.QueryRow(ctx, "INSERT INTO distances (distance) VALUES ($1) RETURNING distance_id", meters).
		Scan(&d.ID)
	if err != nil {
		return nil, wrapIntegrity(err)
	}
	return d, nil
}

// DeleteDistance removes a distance. Fails with IntegrityError when any
// record still references it.
func (db *DB) DeleteDistance(ctx context.Context, id int) (bool, error) {
	return db.deleteCatalogRow(ctx, "DELETE FROM distances WHERE distance_id = $1", id)
}

// ListStrokes returns all strokes ordered by name.
func (db *DB) ListStrokes(ctx context.Context) ([]Stroke, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, "SELECT stroke_id, stroke FROM strokes ORDER BY stroke")
	if err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}
	defer rows.Close()

	var strokes []Stroke
	for rows.Next() {
		var s Stroke
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan stroke: %w", err)
		}
		strokes = append(strokes, s)
	}
	return strokes, rows.Err()
}

// GetStroke retrieves a stroke by ID, returning nil when absent.
func (db *DB) GetStroke(ctx context.Context, id int) (*Stroke, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	s := &Stroke{}
	err = pool.QueryRow(ctx, "SELECT stroke_id, stroke FROM strokes WHERE stroke_id = $1", id).
		Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stroke: %w", err)
	}
	return s, nil
}

// CreateStroke inserts a new stroke catalog row.
func (db *DB) CreateStroke(ctx context.Context, name string) (*Stroke, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	s := &Stroke{Name: name}
	err = pool.QueryRow(ctx, "INSERT INTO strokes (stroke) VALUES ($1) RETURNING stroke_id", name).
		Scan(&s.ID)
	if err != nil {
		return nil, wrapIntegrity(err)
	}
	return s, nil
}

// DeleteStroke removes a stroke unless records still reference it.
func (db *DB) DeleteStroke(ctx context.Context, id int) (bool, error) {
	return db.deleteCatalogRow(ctx, "DELETE FROM strokes WHERE stroke_id = $1", id)
}

// ListPhases returns all phases ordered by name.
func (db *DB) ListPhases(ctx context.Context) ([]Phase, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, "SELECT phase_id, phase FROM phases ORDER BY phase")
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	defer rows.Close()

	var phases []Phase
	for rows.Next() {
		var p Phase
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

// GetPhase retrieves a phase by ID, returning nil when absent.
func (db *DB) GetPhase(ctx context.Context, id int) (*Phase, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	p := &Phase{}
	err = pool.QueryRow(ctx, "SELECT phase_id, phase FROM phases WHERE phase_id = $1", id).
		Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phase: %w", err)
	}
	return p, nil
}

// CreatePhase inserts a new phase catalog row.
func (db *DB) CreatePhase(ctx context.Context, name string) (*Phase, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	p := &Phase{Name: name}
	err = pool.QueryRow(ctx, "INSERT INTO phases (phase) VALUES ($1) RETURNING phase_id", name).
		Scan(&p.ID)
	if err != nil {
		return nil, wrapIntegrity(err)
	}
	return p, nil
}

// DeletePhase removes a phase unless records still reference it.
func (db *DB) DeletePhase(ctx context.Context, id int) (bool, error) {
	return db.deleteCatalogRow(ctx, "DELETE FROM phases WHERE phase_id = $1", id)
}

// ListParameters returns all parameters ordered by name.
func (db *DB) ListParameters(ctx context.Context) ([]Parameter, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT parameter_id, parameter, kind, is_global, description, unit
		FROM parameters ORDER BY parameter
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}
	defer rows.Close()

	var parameters []Parameter
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Global, &p.Description, &p.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		parameters = append(parameters, p)
	}
	return parameters, rows.Err()
}

// GetParameter retrieves a parameter by ID, returning nil when absent.
func (db *DB) GetParameter(ctx context.Context, id int) (*Parameter, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	p := &Parameter{}
	err = pool.QueryRow(ctx, `
		SELECT parameter_id, parameter, kind, is_global, description, unit
		FROM parameters WHERE parameter_id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Kind, &p.Global, &p.Description, &p.Unit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parameter: %w", err)
	}
	return p, nil
}

// CreateParameter inserts a new parameter catalog row.
func (db *DB) CreateParameter(ctx context.Context, p *Parameter) error {
	pool, err := db.activePool()
	if err != nil {
		return err
	}

	err = pool.QueryRow(ctx, `
		INSERT INTO parameters (parameter, kind, is_global, description, unit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING parameter_id
	`, p.Name, p.Kind, p.Global, p.Description, p.Unit).Scan(&p.ID)
	if err != nil {
		return wrapIntegrity(err)
	}
	return nil
}

// DeleteParameter removes a parameter. Fails with IntegrityError when any
// record still references it, leaving all rows unchanged.
func (db *DB) DeleteParameter(ctx context.Context, id int) (bool, error) {
	return db.deleteCatalogRow(ctx, "DELETE FROM parameters WHERE parameter_id = $1", id)
}

func (db *DB) deleteCatalogRow(ctx context.Context, stmt string, id int) (bool, error) {
	pool, err := db.activePool()
	if err != nil {
		return false, err
	}

	tag, err := pool.Exec(ctx, stmt, id)
	if err != nil {
		return false, wrapIntegrity(err)
	}
	return tag.RowsAffected() > 0, nil
}
