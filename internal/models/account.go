// Package models holds the persisted records of the account store.
package models

import (
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/cryptox"
)

// Account is a user identity keyed by email.
//
// IsAdmin is stored separately but always equals IsSuperuser for accounts
// created through services.AccountService.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser" json:"is_superuser"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
}

func (a *Account) String() string {
	return a.Email
}

// HasUsablePassword reports whether the account can log in with a password.
func (a *Account) HasUsablePassword() bool {
	return cryptox.IsUsable(a.PasswordHash)
}

// IsPrivileged reports whether all privilege flags are set.
func (a *Account) IsPrivileged() bool {
	return a.IsStaff && a.IsSuperuser && a.IsAdmin
}

// Fields are optional attribute overrides supplied at creation time.
// A nil pointer means "not supplied".
type Fields struct {
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
	IsAdmin     *bool
	DateJoined  *time.Time
}

// Bool returns a pointer to v, for filling Fields.
func Bool(v bool) *bool {
	return &v
}

// Apply copies the supplied overrides onto a.
func (f Fields) Apply(a *Account) {
	if f.IsActive != nil {
		a.IsActive = *f.IsActive
	}
	if f.IsStaff != nil {
		a.IsStaff = *f.IsStaff
	}
	if f.IsSuperuser != nil {
		a.IsSuperuser = *f.IsSuperuser
	}
	if f.IsAdmin != nil {
		a.IsAdmin = *f.IsAdmin
	}
	if f.DateJoined != nil {
		a.DateJoined = *f.DateJoined
	}
}
