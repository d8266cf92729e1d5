package errors

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "modernc.org/sqlite/lib"
)

// Regular expressions for parsing PgError.Detail and SQLite constraint messages.
var (
	// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reNotPresent detects missing parent: "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
	// reSQLiteColumn extracts "table.column" from "UNIQUE constraint failed: table.column".
	reSQLiteColumn = regexp.MustCompile(`constraint failed: [A-Za-z_]+\.([A-Za-z_]+)`)
)

// sqliteCoder matches driver errors that expose an extended SQLite result code
// (modernc.org/sqlite's *sqlite.Error).
type sqliteCoder interface {
	error
	Code() int
}

// MapDBError maps database errors to AppError instances.
// It handles:
// - sql.ErrNoRows / pgx.ErrNoRows → NotFound
// - Unique constraint violations → Conflict
// - Foreign key violations → ForeignKey
// - Check and NOT NULL violations → Validation
// - Context timeouts/cancellations → Timeout/Canceled
//
// Both PostgreSQL (pgconn.PgError) and SQLite extended result codes are recognized.
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var liteErr sqliteCoder
	if errors.As(err, &liteErr) {
		if mapped := mapSQLiteError(liteErr); mapped != nil {
			return mapped
		}
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := pgErr.ColumnName
		if field == "" && pgErr.Detail != "" {
			if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
				field = m[1]
			}
		}
		if field == "" {
			field = inferFieldFromConstraint(pgErr.ConstraintName)
		}
		return conflictError(field, pgErr)
	case pgerrcode.ForeignKeyViolation:
		table := pgErr.TableName
		if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			table = m[1]
		}
		return foreignKeyError(table, pgErr)
	case pgerrcode.CheckViolation:
		return checkError(pgErr.ColumnName, pgErr)
	case pgerrcode.NotNullViolation:
		return notNullError(pgErr.ColumnName, pgErr)
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// mapSQLiteError maps SQLite extended constraint codes. Returns nil for
// codes it does not recognize so the caller can fall through.
func mapSQLiteError(err sqliteCoder) error {
	field := ""
	if m := reSQLiteColumn.FindStringSubmatch(err.Error()); len(m) == 2 {
		field = m[1]
	}

	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return conflictError(field, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return foreignKeyError("", err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return checkError(field, err)
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return notNullError(field, err)
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Database is busy. Please try again.",
			Cause:   err,
		}
	default:
		return nil
	}
}

func conflictError(field string, cause error) error {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   cause,
	}
}

func foreignKeyError(table string, cause error) error {
	message := "Cannot complete operation because a referenced item does not exist."
	if table != "" {
		message = "Cannot complete operation because the referenced " + mapTableToDomain(table) + " does not exist."
	}
	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: message,
		Cause:   cause,
	}
}

func checkError(field string, cause error) error {
	if field != "" {
		return &AppError{Code: ErrCodeValidation, Message: "This field has an invalid value.", Field: field, Cause: cause}
	}
	return &AppError{Code: ErrCodeValidation, Message: "Invalid data. Please check your input.", Cause: cause}
}

func notNullError(field string, cause error) error {
	if field != "" {
		return &AppError{Code: ErrCodeValidation, Message: "This field is required.", Field: field, Cause: cause}
	}
	return &AppError{Code: ErrCodeValidation, Message: "Required field is missing. Please check your input.", Cause: cause}
}

// inferFieldFromConstraint attempts to infer the field name from a constraint name.
// e.g., "user_email_key" → "email"
// Returns empty string if inference fails or is ambiguous.
func inferFieldFromConstraint(constraintName string) string {
	parts := strings.Split(constraintName, "_")
	if len(parts) != 3 || isFunctionName(parts[1]) {
		return ""
	}
	return parts[1]
}

// mapTableToDomain maps internal table names to user-friendly domain names.
func mapTableToDomain(tableName string) string {
	tableName = strings.ToLower(strings.Trim(strings.TrimSpace(tableName), `"`))

	domainMap := map[string]string{
		"user":                  "User",
		"job":                   "Job",
		"working_document":      "Document",
		"user_job_relation":     "Job",
		"job_document_relation": "Document",
	}
	if domainName, ok := domainMap[tableName]; ok {
		return domainName
	}
	return capitalizeFirst(strings.ReplaceAll(tableName, "_", " "))
}

// capitalizeFirst capitalizes the first letter of each word in a string.
func capitalizeFirst(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if len(word) > 0 && word[0] >= 'a' && word[0] <= 'z' {
			words[i] = string(word[0]-32) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// isFunctionName checks if a string looks like a common SQL function name
// used in expression indexes (e.g., lower, upper, trim).
func isFunctionName(s string) bool {
	switch strings.ToLower(s) {
	case "lower", "upper", "trim", "ltrim", "rtrim", "md5":
		return true
	}
	return false
}
