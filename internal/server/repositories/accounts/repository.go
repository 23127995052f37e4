// Package accounts declares the repository contract for the cadastro table:
// account CRUD plus the row-locked queries the credit rotation runs on.
package accounts

import (
	"context"

	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/shopspring/decimal"
)

// TopBalance is the leaderboard row returned by HighestBalance.
type TopBalance struct {
	Nome  string
	Saldo decimal.Decimal
}

// Repository defines persistence operations for accounts.
type Repository interface {
	// Create inserts a new account and returns it with ID and creation
	// time populated. New accounts start receiving credits.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail returns the account with the given email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID returns the account with the given id, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// CurrentRecipientForUpdate returns the account with the smallest id
	// where recebendo_creditos AND NOT limite_atingido, locking the row
	// for the duration of the surrounding transaction. Returns
	// common.ErrorNotFound when no account is eligible.
	CurrentRecipientForUpdate(ctx context.Context) (*models.Account, error)

	// NextCandidateForUpdate returns the account with the smallest id
	// where NOT recebendo_creditos AND NOT limite_atingido, locking the
	// row. Returns common.ErrorNotFound when no candidate exists.
	NextCandidateForUpdate(ctx context.Context) (*models.Account, error)

	// UpdateBalance persists a new balance for the account.
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error

	// SetRotationFlags persists the receiving/capped pair for the account.
	SetRotationFlags(ctx context.Context, id int64, receiving, capped bool) error

	// ActivateByEmail sets recebendo_creditos=true for the account and
	// returns the updated row, or common.ErrorNotFound.
	ActivateByEmail(ctx context.Context, email string) (*models.Account, error)

	// Count returns the number of registered accounts.
	Count(ctx context.Context) (int64, error)

	// HighestBalance returns the name and balance of the richest account,
	// or common.ErrorNotFound when no accounts exist.
	HighestBalance(ctx context.Context) (*TopBalance, error)
}
