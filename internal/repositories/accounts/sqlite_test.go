package accounts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/migrations"
	"github.com/dmitrijs2005/accountkeeper/internal/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := dbx.Open(context.Background(), "file:accounts_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "sqlite"))
	return db
}

func TestSQLiteCreateAndGet(t *testing.T) {
	repo := NewSQLiteRepository(newSQLiteDB(t))
	ctx := context.Background()

	joined := time.Date(2024, 5, 1, 12, 30, 15, 123456789, time.FixedZone("EEST", 3*3600))
	a := &models.Account{
		ID:           "id-1",
		Email:        "admin@example.com",
		PasswordHash: "$2a$04$hash",
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		IsAdmin:      true,
		DateJoined:   joined,
	}
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "$2a$04$hash", got.PasswordHash)
	assert.True(t, got.IsActive)
	assert.True(t, got.IsPrivileged())
	assert.True(t, joined.Equal(got.DateJoined))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteCreate_Duplicate(t *testing.T) {
	repo := NewSQLiteRepository(newSQLiteDB(t))
	ctx := context.Background()

	first := &models.Account{ID: "id-1", Email: "dup@example.com", PasswordHash: "h1", IsActive: true, DateJoined: time.Now()}
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := &models.Account{ID: "id-2", Email: "dup@example.com", PasswordHash: "h2", DateJoined: time.Now()}
	_, err = repo.Create(ctx, second)
	require.ErrorIs(t, err, common.ErrorDuplicate)

	got, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "h1", got.PasswordHash)
	assert.True(t, got.IsActive)
}

func TestSQLiteCreate_EmailIsCaseSensitive(t *testing.T) {
	repo := NewSQLiteRepository(newSQLiteDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Account{ID: "id-1", Email: "John@example.com", PasswordHash: "h", DateJoined: time.Now()})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Account{ID: "id-2", Email: "john@example.com", PasswordHash: "h", DateJoined: time.Now()})
	require.NoError(t, err)
}

func TestSQLiteGetByEmail_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(newSQLiteDB(t))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteCreate_OtherError(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Account{ID: "id-1", Email: "a@example.com", PasswordHash: "h", DateJoined: time.Now()})
	require.NoError(t, err)

	// same primary key, different email
	_, err = repo.Create(ctx, &models.Account{ID: "id-1", Email: "b@example.com", PasswordHash: "h", DateJoined: time.Now()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorDuplicate)
}
