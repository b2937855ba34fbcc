package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const recordColumns = `record_id, competition_id, swimmer_id, distance_id, stroke_id,
	phase_id, parameter_id, record_date, segment, value, note, validated`

func scanRecord(row pgx.Row, r *Record) error {
	return row.Scan(
		&r.ID, &r.CompetitionID, &r.SwimmerID, &r.DistanceID, &r.StrokeID,
		&r.PhaseID, &r.ParameterID, &r.Date, &r.Segment, &r.Value, &r.Note, &r.Validated,
	)
}

// RecordFilter narrows ListRecords. Zero fields are ignored.
type RecordFilter struct {
	SwimmerID     int
	CompetitionID int
	ParameterID   int
	SplitsOnly    bool
}

// ListRecords returns records matching the filter, newest first.
func (db *DB) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	var conds []string
	var args []any
	if filter.SwimmerID != 0 {
		args = append(args, filter.SwimmerID)
		conds = append(conds, fmt.Sprintf("swimmer_id = $%d", len(args)))
	}
	if filter.CompetitionID != 0 {
		args = append(args, filter.CompetitionID)
		conds = append(conds, fmt.Sprintf("competition_id = $%d", len(args)))
	}
	if filter.ParameterID != 0 {
		args = append(args, filter.ParameterID)
		conds = append(conds, fmt.Sprintf("parameter_id = $%d", len(args)))
	}
	if filter.SplitsOnly {
		conds = append(conds, "segment IS NOT NULL AND segment > 0")
	}

	query := "SELECT " + recordColumns + " FROM records"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY record_id DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := scanRecord(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetRecord retrieves a record by ID, returning nil when absent.
func (db *DB) GetRecord(ctx context.Context, id int64) (*Record, error) {
	pool, err := db.activePool()
	if err != nil {
		return nil, err
	}

	r := &Record{}
	row := pool.QueryRow(ctx, "SELECT "+recordColumns+" FROM records WHERE record_id = $1", id)
	if err := scanRecord(row, r); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return r, nil
}

// CreateRecord inserts one record and fills in its ID. A reference to a
// missing parent row in any of the six foreign keys is rejected by the
// schema and surfaces as an IntegrityError; no partial row is persisted.
func (db *DB) CreateRecord(ctx context.Context, r *Record) error {
	pool, err := db.activePool()
	if err != nil {
		return err
	}

	err = pool.QueryRow(ctx, `
		INSERT INTO records (competition_id, swimmer_id, distance_id, stroke_id,
			phase_id, parameter_id, record_date, segment, value, note, validated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING record_id
	`, r.CompetitionID, r.SwimmerID, r.DistanceID, r.StrokeID, r.PhaseID,
		r.ParameterID, r.Date, r.Segment, r.Value, r.Note, r.Validated).Scan(&r.ID)
	if err != nil {
		return wrapIntegrity(err)
	}
	return nil
}

// CreateRecords inserts a batch of records in a single transaction: either
// every record lands or none does. Typical use is loading a full set of
// splits for one race at once.
func (db *DB) CreateRecords(ctx context.Context, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	return db.WithSession(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, r := range records {
			err := tx.QueryRow(ctx, `
				INSERT INTO records (competition_id, swimmer_id, distance_id, stroke_id,
					phase_id, parameter_id, record_date, segment, value, note, validated)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				RETURNING record_id
			`, r.CompetitionID, r.SwimmerID, r.DistanceID, r.StrokeID, r.PhaseID,
				r.ParameterID, r.Date, r.Segment, r.Value, r.Note, r.Validated).Scan(&r.ID)
			if err != nil {
				return wrapIntegrity(err)
			}
		}
		return nil
	})
}

// UpdateRecord replaces the measured value, note and validation flag of a
// record. The six foreign keys are immutable; r is refreshed from the stored
// row, so after a successful update it reflects exactly what is persisted.
// Returns false when the record does not exist.
func (db *DB) UpdateRecord(ctx context.Context, r *Record) (bool, error) {
	pool, err := db.activePool()
	if err != nil {
		return false, err
	}

	row := pool.QueryRow(ctx, `
		UPDATE records
		SET record_date = $1, segment = $2, value = $3, note = $4, validated = $5
		WHERE record_id = $6
		RETURNING `+recordColumns,
		r.Date, r.Segment, r.Value, r.Note, r.Validated, r.ID)
	if err := scanRecord(row, r); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, wrapIntegrity(err)
	}
	return true, nil
}

// DeleteRecord removes a single record. Returns false when it did not exist.
func (db *DB) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	pool, err := db.activePool()
	if err != nil {
		return false, err
	}

	tag, err := pool.Exec(ctx, "DELETE FROM records WHERE record_id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
