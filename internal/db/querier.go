package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier represents the minimal database operations used by services.
// Both *pgxpool.Pool and pgxmock pools satisfy this interface.
type Querier interface {
	Executor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Executor is the statement-level subset shared by pools and transactions,
// so multi-write operations can run the same helpers inside a pgx.Tx.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrStorageUnavailable wraps unexpected store failures so callers can map
// them to a 503 without inspecting driver errors.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageErr wraps a raw database error. pgx.ErrNoRows is passed through
// untouched so not-found handling keeps working with errors.Is.
func StorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
