package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/repositories/accounts"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager(dbx.DialectPostgres)
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, m)

	m, err = NewRepositoryManager(dbx.DialectSQLite)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepositoryManager{}, m)

	_, err = NewRepositoryManager("oracle")
	assert.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	pg := &PostgresRepositoryManager{}
	assert.IsType(t, &accounts.PostgresRepository{}, pg.Accounts(db))

	lite := &SQLiteRepositoryManager{}
	assert.IsType(t, &accounts.SQLiteRepository{}, lite.Accounts(db))

	var _ RepositoryManager = pg
	var _ RepositoryManager = lite
}

func TestRunMigrations_PassesDialectDir(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	tests := []struct {
		name    string
		m       RepositoryManager
		wantDir string
	}{
		{"postgres", &PostgresRepositoryManager{}, "postgres"},
		{"sqlite", &SQLiteRepositoryManager{}, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDir string
			stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
				gotDir = dir
				if len(opts) != 0 {
					return errors.New("unexpected opts")
				}
				return nil
			})

			require.NoError(t, tt.m.RunMigrations(context.Background(), db))
			assert.Equal(t, tt.wantDir, gotDir)
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	m := &PostgresRepositoryManager{}
	err := m.RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestRunMigrations_SQLiteEndToEnd(t *testing.T) {
	db, dialect, err := dbx.Open(context.Background(), "file:repomanager_e2e?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()

	m, err := NewRepositoryManager(dialect)
	require.NoError(t, err)

	require.NoError(t, m.RunMigrations(context.Background(), db))
	// second run is a no-op
	require.NoError(t, m.RunMigrations(context.Background(), db))

	n, err := m.Accounts(db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
