// Package app wires configuration, storage and the account service into
// the accountctl operator tool.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/cryptox"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/models"
	"github.com/dmitrijs2005/accountkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	out      io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.PasswordHashCost)
	if err != nil {
		return nil, err
	}

	db, dialect, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if c.RunMigrations {
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		logger.Debug(ctx, "migrations applied", "dialect", string(dialect))
	}

	as := services.NewAccountService(db, rm, hasher, logger)

	return &App{config: c, logger: logger, db: db, accounts: as, out: os.Stdout}, nil
}

// Close releases the database and flushes buffered logs.
func (a *App) Close() error {
	if s, ok := a.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return a.db.Close()
}

// Run executes cmd.
func (a *App) Run(ctx context.Context, cmd *Command) error {
	switch cmd.Name {
	case CmdCreateUser:
		return a.create(ctx, cmd, false)
	case CmdCreateSuperuser:
		return a.create(ctx, cmd, true)
	case CmdCheck:
		return a.check(ctx, cmd.Email)
	}
	return ErrUsage
}

func (a *App) create(ctx context.Context, cmd *Command, privileged bool) error {
	var password string
	if !cmd.NoPassword {
		pw, err := getNewPassword(a.out)
		if err != nil {
			return err
		}
		password = pw
	}

	var (
		account *models.Account
		err     error
	)
	if privileged {
		account, err = a.accounts.CreateSuperuser(ctx, cmd.Email, password, models.Fields{})
	} else {
		account, err = a.accounts.CreateUser(ctx, cmd.Email, password, models.Fields{})
	}
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return fmt.Errorf("that email is already taken: %w", err)
		}
		return err
	}

	if privileged {
		fmt.Fprintf(a.out, "Superuser %s created successfully.\n", account)
	} else {
		fmt.Fprintf(a.out, "User %s created successfully.\n", account)
	}
	return nil
}

func (a *App) check(ctx context.Context, email string) error {
	pw, err := getPassword(a.out, "Password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	account, err := a.accounts.Authenticate(ctx, email, string(pw))
	if err != nil {
		if errors.Is(err, common.ErrorInactive) {
			return fmt.Errorf("account %s is inactive: %w", email, err)
		}
		return fmt.Errorf("invalid email or password: %w", err)
	}

	role := "user"
	if account.IsSuperuser {
		role = "superuser"
	}
	fmt.Fprintf(a.out, "OK: %s (%s, joined %s)\n", account, role, account.DateJoined.Format("2006-01-02"))
	return nil
}
