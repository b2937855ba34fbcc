package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWrapIntegrityForeignKey(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgCodeForeignKeyViolation,
		ConstraintName: "records_distance_id_fkey",
		TableName:      "records",
	}

	err := wrapIntegrity(fmt.Errorf("insert failed: %w", pgErr))

	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected IntegrityError, got %T: %v", err, err)
	}
	if integrity.Code != pgCodeForeignKeyViolation {
		t.Errorf("expected code %s, got %s", pgCodeForeignKeyViolation, integrity.Code)
	}
	if integrity.Constraint != "records_distance_id_fkey" {
		t.Errorf("unexpected constraint: %s", integrity.Constraint)
	}
	// The original driver error stays reachable.
	var unwrapped *pgconn.PgError
	if !errors.As(err, &unwrapped) {
		t.Error("expected wrapped PgError to remain accessible")
	}
}

func TestWrapIntegrityUnique(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgCodeUniqueViolation, ConstraintName: "distances_distance_key"}

	var integrity *IntegrityError
	if !errors.As(wrapIntegrity(pgErr), &integrity) {
		t.Fatal("expected IntegrityError for unique violation")
	}
}

func TestWrapIntegrityPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("connection refused")
	if got := wrapIntegrity(plain); got != plain {
		t.Errorf("expected passthrough, got %v", got)
	}

	// Non-integrity postgres errors are not masked either.
	pgErr := &pgconn.PgError{Code: "42P01"} // undefined_table
	var integrity *IntegrityError
	if errors.As(wrapIntegrity(pgErr), &integrity) {
		t.Error("undefined_table must not map to IntegrityError")
	}

	if wrapIntegrity(nil) != nil {
		t.Error("nil must stay nil")
	}
}

func TestTxErrorUnwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := error(&TxError{Op: "commit", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("TxError must unwrap to its cause")
	}

	var txErr *TxError
	if !errors.As(err, &txErr) || txErr.Op != "commit" {
		t.Errorf("unexpected TxError: %v", err)
	}
}
