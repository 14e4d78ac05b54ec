package transaction

import (
	"context"

	"finch/internal/models"
)

// deposit credits external money into a customer's REAL_MONEY subwallet,
// with the INTERNAL house account as the contra side.
type deposit struct {
	*deps
}

func (b deposit) validate(_ context.Context, tx *models.Transaction) error {
	return b.validateExternalTransaction(tx)
}

func (b deposit) execute(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	postedAt, err := b.ledger.PostJournalEntries(ctx, b.entries(tx))
	if err != nil {
		return nil, err
	}
	return b.finalize(ctx, tx, models.StatusCompleted, postedAt)
}

func (b deposit) entries(tx *models.Transaction) []models.JournalEntryDraft {
	return []models.JournalEntryDraft{
		{
			WalletID:      &tx.OriginatorWalletID,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceAvailable,
			Amount:        tx.Amount,
		},
		{
			WalletID:      nil,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceInternal,
			Amount:        tx.Amount.Neg(),
		},
	}
}

func (b deposit) reversalEntries(tx *models.Transaction) []models.JournalEntryDraft {
	return negated(b.entries(tx))
}
