// Package repositories provides the storage ports of the ledger core and
// their Postgres implementations. All balance state lives in the journal
// entry log; the repositories never compute or cache running balances.
package repositories

import (
	"context"

	"finch/internal/models"
)

// WalletFilter narrows a wallet lookup; zero fields are ignored and the set
// fields are AND-combined.
type WalletFilter struct {
	CustomerID string
	Type       models.WalletType
}

// WalletRepository resolves wallet identity. Wallets are immutable after
// creation, so there is no update operation.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	Find(ctx context.Context, filter WalletFilter) ([]*models.Wallet, error)
}
