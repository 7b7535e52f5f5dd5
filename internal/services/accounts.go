// Package services contains the account store's business logic. This file
// implements AccountService, which creates standard and privileged
// accounts and authenticates them by email and password.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/cryptox"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/mailx"
	"github.com/dmitrijs2005/accountkeeper/internal/models"
	"github.com/dmitrijs2005/accountkeeper/internal/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	ErrEmailRequired   = fmt.Errorf("%w: users must have an email address", common.ErrorInvalidInput)
	ErrPrivilegedFlags = fmt.Errorf("%w: privileged accounts must carry all three flags", common.ErrorInvalidInput)
)

// PasswordHasher turns plaintext passwords into stored hashes and back.
// *cryptox.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, encoded string) bool
}

// AccountService creates and authenticates accounts:
//   - CreateUser: standard account, privilege flags forced off
//   - CreateSuperuser: privileged account, privilege flags forced on
//   - Authenticate: check email and password of an active account
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

// NewAccountService constructs an AccountService over db.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger.With("component", "accounts"),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// CreateUser creates a standard account. IsStaff, IsSuperuser and IsAdmin
// are always false, whatever fields says. An empty password leaves the
// account with an unusable password.
func (s *AccountService) CreateUser(ctx context.Context, email, password string, fields models.Fields) (*models.Account, error) {
	return s.create(ctx, email, password, fields, false)
}

// CreateSuperuser creates a privileged account with IsStaff, IsSuperuser
// and IsAdmin set. Explicitly passing false for any of them fails with
// ErrPrivilegedFlags before anything is written.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string, fields models.Fields) (*models.Account, error) {
	if isFalse(fields.IsStaff) || isFalse(fields.IsSuperuser) || isFalse(fields.IsAdmin) {
		s.logger.Warn(ctx, "account rejected", "op", "create_superuser", "reason", ErrPrivilegedFlags.Error())
		return nil, ErrPrivilegedFlags
	}
	return s.create(ctx, email, password, fields, true)
}

// Authenticate returns the account for email when password matches and
// the account is active. Every failure is reported as
// common.ErrorUnauthorized; inactive accounts additionally wrap
// common.ErrorInactive.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, mailx.Normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// hash anyway so unknown emails take as long as wrong passwords
			_, _ = s.hasher.Hash(password[:min(len(password), cryptox.MaxPasswordLength)])
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Check(password, account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrorInactive)
	}
	return account, nil
}

// GetByEmail looks an account up by its normalized email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, mailx.Normalize(email))
	if err != nil {
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return account, nil
}

func (s *AccountService) create(ctx context.Context, email, password string, fields models.Fields, privileged bool) (*models.Account, error) {
	op := "create_user"
	if privileged {
		op = "create_superuser"
	}

	account, err := s.newAccount(email, password, fields)
	if err != nil {
		s.logger.Warn(ctx, "account rejected", "op", op, "reason", err.Error())
		return nil, err
	}

	account.IsStaff = privileged
	account.IsSuperuser = privileged
	account.IsAdmin = privileged

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Accounts(tx).Create(ctx, account)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			s.logger.Warn(ctx, "account rejected", "op", op, "email", account.Email, "reason", "duplicate email")
		} else {
			s.logger.Error(ctx, "account insert failed", "op", op, "email", account.Email, "error", err)
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "op", op, "id", account.ID, "email", account.Email)
	return account, nil
}

// newAccount validates input and builds the record with defaults and
// caller overrides applied. Privilege flags are settled by the caller.
func (s *AccountService) newAccount(email, password string, fields models.Fields) (*models.Account, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := mailx.Validate(email); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           s.newID(),
		Email:        mailx.Normalize(email),
		PasswordHash: hash,
		IsActive:     true,
		DateJoined:   s.now().UTC(),
	}
	fields.Apply(account)

	return account, nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	if password == "" {
		return cryptox.MakeUnusablePassword()
	}
	return s.hasher.Hash(password)
}

func isFalse(v *bool) bool {
	return v != nil && !*v
}
