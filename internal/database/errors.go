package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotInitialized is returned when a session is requested before the
	// pool has been opened. This is a programming error, not a transient
	// condition.
	ErrNotInitialized = errors.New("database: pool not opened")

	// ErrPoolExhausted is returned when no connection becomes available
	// within the configured pool timeout. Retry policy is the caller's
	// decision; the pool never retries internally.
	ErrPoolExhausted = errors.New("database: connection pool exhausted")
)

// TxError reports a failure during commit or rollback. The connection is
// still released when a TxError is returned.
type TxError struct {
	Op  string // "begin", "commit" or "rollback"
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("database: transaction %s failed: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a referential or uniqueness constraint breach
// surfaced by PostgreSQL: a missing parent row, a restricted delete, a
// duplicate natural key, or a violated check constraint.
type IntegrityError struct {
	Code       string // PostgreSQL error code (class 23)
	Constraint string
	Table      string
	Err        error
}

func (e *IntegrityError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("database: integrity violation on %q (%s): %v", e.Constraint, e.Code, e.Err)
	}
	return fmt.Sprintf("database: integrity violation (%s): %v", e.Code, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// PostgreSQL class 23 (integrity constraint violation) codes.
const (
	pgCodeNotNullViolation    = "23502"
	pgCodeForeignKeyViolation = "23503"
	pgCodeUniqueViolation     = "23505"
	pgCodeCheckViolation      = "23514"
)

// wrapIntegrity converts integrity-class PostgreSQL errors into
// IntegrityError and passes everything else through unchanged.
func wrapIntegrity(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgCodeNotNullViolation, pgCodeForeignKeyViolation, pgCodeUniqueViolation, pgCodeCheckViolation:
		return &IntegrityError{
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Table:      pgErr.TableName,
			Err:        err,
		}
	}
	return err
}
