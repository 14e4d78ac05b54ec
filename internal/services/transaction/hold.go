package transaction

import (
	"context"
	"fmt"

	"finch/internal/models"
)

// hold earmarks funds by moving them from AVAILABLE to HOLDING within the
// same subwallet. The transaction stays in PROCESSING until a follow-up
// movement consumes the held funds.
type hold struct {
	*deps
}

func (b hold) validate(ctx context.Context, tx *models.Transaction) error {
	if !holdableSubwallets[tx.OriginatorSubwalletType] {
		return fmt.Errorf("%w on %s subwallet", ErrHoldNotAllowed, tx.OriginatorSubwalletType)
	}
	return b.validateAvailableBalance(ctx, tx)
}

// holdableSubwallets are the subwallet types funds can be earmarked on:
// real money ahead of an investment, and the investable buckets ahead of a
// liquidation.
var holdableSubwallets = func() map[models.SubwalletType]bool {
	m := map[models.SubwalletType]bool{
		models.SubwalletRealMoney:  true,
		models.SubwalletInvestment: true,
	}
	for _, st := range models.InvestableSubwallets {
		m[st] = true
	}
	return m
}()

func (b hold) execute(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	postedAt, err := b.ledger.PostJournalEntries(ctx, b.entries(tx))
	if err != nil {
		return nil, err
	}
	return b.finalize(ctx, tx, models.StatusProcessing, postedAt)
}

func (b hold) entries(tx *models.Transaction) []models.JournalEntryDraft {
	return []models.JournalEntryDraft{
		{
			WalletID:      &tx.OriginatorWalletID,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceAvailable,
			Amount:        tx.Amount.Neg(),
		},
		{
			WalletID:      &tx.OriginatorWalletID,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceHolding,
			Amount:        tx.Amount,
		},
	}
}

func (b hold) reversalEntries(tx *models.Transaction) []models.JournalEntryDraft {
	return negated(b.entries(tx))
}
