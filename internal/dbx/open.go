package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var ErrUnsupportedDSN = errors.New("unsupported database DSN")

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectSQLite:
		return "sqlite"
	}
	return ""
}

// ParseDSN detects the dialect of dsn and returns the data source string
// to hand to the driver.
//
//	postgres://..., postgresql://...   PostgreSQL via pgx, DSN passed as is
//	sqlite://path                      SQLite file at path
//	file:..., :memory:                 SQLite, DSN passed as is
func ParseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DialectSQLite, dsn, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
}

// Open connects to the database named by dsn and checks it is reachable.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	if dialect == DialectSQLite {
		if path, ok := sqliteFilePath(source); ok {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, "", fmt.Errorf("db open error: %w", err)
			}
		}
	}

	db, err := sql.Open(dialect.DriverName(), source)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	// SQLite allows a single writer, and ":memory:" is per connection.
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}

	return db, dialect, nil
}

// sqliteFilePath returns the on-disk path of a SQLite source, or false for
// in-memory databases.
func sqliteFilePath(source string) (string, bool) {
	if source == ":memory:" || strings.Contains(source, "mode=memory") {
		return "", false
	}
	path := strings.TrimPrefix(source, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return "", false
	}
	return path, true
}

// redact drops everything before the host so credentials never reach logs.
func redact(dsn string) string {
	if i := strings.LastIndex(dsn, "@"); i >= 0 {
		return "***" + dsn[i:]
	}
	return dsn
}
