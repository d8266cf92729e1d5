// Package schema provisions the five-table document tracking schema for development and tests.
// Production databases are provisioned externally; there is no version tracking.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/doctrack-api/internal/data/database"
)

//go:embed sql/*.sql
var ddlFS embed.FS

// Tables lists the schema tables in dependency order (parents first).
var Tables = []string{"user", "job", "working_document", "user_job_relation", "job_document_relation"}

// Statements returns the DDL statements for a dialect.
func Statements(dialect database.Dialect) ([]string, error) {
	raw, err := ddlFS.ReadFile("sql/" + string(dialect) + ".sql")
	if err != nil {
		return nil, fmt.Errorf("read ddl for %s: %w", dialect, err)
	}

	var stmts []string
	for _, part := range strings.Split(string(raw), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// Apply creates any missing tables and indexes in a single transaction. It is safe to call multiple times.
func Apply(ctx context.Context, db *sql.DB, dialect database.Dialect) error {
	stmts, err := Statements(dialect)
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "schema")
	logger.InfoContext(ctx, "provisioning schema", "dialect", dialect, "statements", len(stmts))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rollbackErr)
		}
	}()

	for i, stmt := range stmts {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			return fmt.Errorf("exec ddl statement %d: %w", i+1, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit schema: %w", commitErr)
	}
	return nil
}

// Truncate deletes all rows from every table, children first. Used by tests and the admin seed command.
func Truncate(ctx context.Context, db *sql.DB) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		q := "DELETE FROM " + database.QuoteIdentifier(Tables[i])
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("truncate %s: %w", Tables[i], err)
		}
	}
	return nil
}
