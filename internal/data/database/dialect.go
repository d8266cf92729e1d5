package database

import (
	"fmt"
	"strings"
)

// Dialect identifies the SQL backend behind a *sql.DB.
type Dialect string

const (
	// SQLite is served by modernc.org/sqlite.
	SQLite Dialect = "sqlite"
	// Postgres is served by the pgx stdlib driver.
	Postgres Dialect = "postgres"
)

// ParseDialect normalizes a configured driver name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// Rebind rewrites $N placeholders for the dialect. SQLite receives ?N, which binds by
// position and tolerates repeated or out-of-order references the same way $N does.
func (d Dialect) Rebind(query string) string {
	if d != SQLite {
		return query
	}
	return placeholderRegex.ReplaceAllString(query, "?$1")
}

// QuoteIdentifier quotes a possibly qualified identifier for either dialect.
func QuoteIdentifier(ident string) string {
	return sanitizeIdentifier(ident)
}
