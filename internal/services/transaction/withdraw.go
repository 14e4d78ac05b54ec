package transaction

import (
	"context"

	"finch/internal/models"
)

// withdraw debits a customer's REAL_MONEY subwallet, mirrored on the
// INTERNAL house account.
type withdraw struct {
	*deps
}

func (b withdraw) validate(ctx context.Context, tx *models.Transaction) error {
	if err := b.validateExternalTransaction(tx); err != nil {
		return err
	}
	return b.validateAvailableBalance(ctx, tx)
}

func (b withdraw) execute(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	postedAt, err := b.ledger.PostJournalEntries(ctx, b.entries(tx))
	if err != nil {
		return nil, err
	}
	return b.finalize(ctx, tx, models.StatusCompleted, postedAt)
}

func (b withdraw) entries(tx *models.Transaction) []models.JournalEntryDraft {
	return []models.JournalEntryDraft{
		{
			WalletID:      &tx.OriginatorWalletID,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceAvailable,
			Amount:        tx.Amount.Neg(),
		},
		{
			WalletID:      nil,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceInternal,
			Amount:        tx.Amount,
		},
	}
}

func (b withdraw) reversalEntries(tx *models.Transaction) []models.JournalEntryDraft {
	return negated(b.entries(tx))
}
