package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// rollbackTimeout bounds the best-effort rollback that runs when the
// caller's context is already cancelled.
const rollbackTimeout = 5 * time.Second

// WithSession checks out a pooled connection, starts a transaction and
// invokes fn with a handle scoped to it.
//
// On normal completion of fn the transaction is committed. On any error
// from fn it is rolled back and fn's error is returned unchanged. The
// connection is released back to the pool on every path, including panics
// and context cancellation.
//
// Returns ErrNotInitialized before Open, and ErrPoolExhausted when no
// connection becomes available within the pool timeout.
func (db *DB) WithSession(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	db.mu.Lock()
	pool := db.pool
	timeout := db.cfg.PoolTimeout
	db.mu.Unlock()

	if pool == nil {
		return ErrNotInitialized
	}

	acquireCtx, cancel := context.WithTimeout(ctx, timeout)
	conn, err := pool.Acquire(acquireCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: no connection within %s", ErrPoolExhausted, timeout)
		}
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return &TxError{Op: "begin", Err: err}
	}

	if err := runScoped(ctx, tx, fn); err != nil {
		rollback(tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		rollback(tx)
		return &TxError{Op: "commit", Err: err}
	}
	return nil
}

// runScoped invokes fn and converts a panic into a rollback before
// re-panicking, so the deferred release in WithSession still runs.
func runScoped(ctx context.Context, tx pgx.Tx, fn func(ctx context.Context, tx pgx.Tx) error) error {
	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
	}()
	return fn(ctx, tx)
}

// rollback is best-effort: it runs on a fresh context so that cancellation
// of the surrounding task cannot skip it, and a failure is logged rather
// than masking the error that triggered it.
func rollback(tx pgx.Tx) {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Error().Err(err).Msg("Failed to rollback transaction")
	}
}
