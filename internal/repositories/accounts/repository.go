// Package accounts persists models.Account records.
//
// Implementations map a violated unique constraint on email to
// common.ErrorDuplicate and a missing row to common.ErrorNotFound.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Count(ctx context.Context) (int64, error)
}
