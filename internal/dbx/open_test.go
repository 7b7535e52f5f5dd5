package dbx

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		wantDialect Dialect
		wantSource  string
		wantErr     bool
	}{
		{"postgres", "postgres://u:p@db:5432/accounts?sslmode=disable", DialectPostgres, "postgres://u:p@db:5432/accounts?sslmode=disable", false},
		{"postgresql", "postgresql://db/accounts", DialectPostgres, "postgresql://db/accounts", false},
		{"sqlite scheme", "sqlite:///var/lib/accounts.db", DialectSQLite, "/var/lib/accounts.db", false},
		{"sqlite relative", "sqlite://accounts.db", DialectSQLite, "accounts.db", false},
		{"file uri", "file:accounts?mode=memory&cache=shared", DialectSQLite, "file:accounts?mode=memory&cache=shared", false},
		{"memory", ":memory:", DialectSQLite, ":memory:", false},
		{"empty sqlite path", "sqlite://", "", "", true},
		{"mysql", "mysql://u:p@db/accounts", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, src, err := ParseDSN(tt.dsn)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedDSN)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, d)
			assert.Equal(t, tt.wantSource, src)
		})
	}
}

func TestParseDSN_RedactsCredentials(t *testing.T) {
	_, _, err := ParseDSN("mysql://root:hunter2@db/accounts")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestDialect_DriverName(t *testing.T) {
	assert.Equal(t, "pgx", DialectPostgres.DriverName())
	assert.Equal(t, "sqlite", DialectSQLite.DriverName())
	assert.Equal(t, "", Dialect("oracle").DriverName())
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.db")

	db, dialect, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, DialectSQLite, dialect)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
}

func TestOpen_UnsupportedDSN(t *testing.T) {
	_, _, err := Open(context.Background(), "redis://localhost:6379")
	assert.ErrorIs(t, err, ErrUnsupportedDSN)
}

func TestOpen_PostgresUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, err := Open(ctx, "postgres://u:p@127.0.0.1:1/accounts?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping error")
}

func TestOpen_SQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "lib", "accounts.db")

	db, _, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSQLiteFilePath(t *testing.T) {
	tests := []struct {
		source string
		want   string
		ok     bool
	}{
		{":memory:", "", false},
		{"file:accounts?mode=memory&cache=shared", "", false},
		{"file::memory:?cache=shared", "", false},
		{"file:/data/accounts.db?_pragma=foreign_keys(1)", "/data/accounts.db", true},
		{"accounts.db", "accounts.db", true},
	}

	for _, tt := range tests {
		got, ok := sqliteFilePath(tt.source)
		assert.Equal(t, tt.ok, ok, tt.source)
		assert.Equal(t, tt.want, got, tt.source)
	}
}
