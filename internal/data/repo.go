// Package data implements the core repository ports over a shared *sql.DB and Redis.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/doctrack-api/internal/data/database"
	apperrors "github.com/target/doctrack-api/internal/errors"
)

// sqlRepo carries the shared connection handle and the dialect used to rebind queries.
type sqlRepo struct {
	DB      *sql.DB
	dialect database.Dialect
}

func (r sqlRepo) query(ctx context.Context, opts *database.ListQueryOptions) (*sql.Rows, error) {
	q, args := database.BuildListQuery(opts)
	return r.DB.QueryContext(ctx, r.dialect.Rebind(q), args...)
}

// dbError maps driver errors onto AppErrors; unrecognized ones become internal errors labeled with op.
func dbError(op string, err error) error {
	mapped := apperrors.MapDBError(err)
	var appErr *apperrors.AppError
	if errors.As(mapped, &appErr) {
		return mapped
	}
	return apperrors.Wrap(mapped, apperrors.ErrCodeInternal, op)
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.Default().ErrorContext(ctx, "failed to rollback transaction", "err", rollbackErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
