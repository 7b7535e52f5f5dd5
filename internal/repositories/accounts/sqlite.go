package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository stores date_joined as RFC 3339 text in UTC.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {

	query := `INSERT INTO accounts (id, email, password_hash, is_active, is_staff, is_superuser, is_admin, date_joined)
			values (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.IsActive, a.IsStaff, a.IsSuperuser, a.IsAdmin,
		a.DateJoined.UTC().Format(time.RFC3339Nano))

	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrorDuplicate, a.Email)
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return a, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {

	query := `select id, email, password_hash, is_active, is_staff, is_superuser, is_admin, date_joined
			from accounts where email=?`

	a := &models.Account{}
	var joined string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.IsActive, &a.IsStaff, &a.IsSuperuser, &a.IsAdmin, &joined)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select account: %w", err)
	}

	a.DateJoined, err = time.Parse(time.RFC3339Nano, joined)
	if err != nil {
		return nil, fmt.Errorf("bad date_joined %q: %w", joined, err)
	}

	return a, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `select count(*) from accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// primary result code only, when extended codes are off
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed: accounts.email")
	}
	return false
}
