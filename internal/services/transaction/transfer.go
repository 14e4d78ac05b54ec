package transaction

import (
	"context"
	"fmt"

	"finch/internal/models"
)

// validTransferPairs are the only (originator, beneficiary) subwallet pairs
// a TRANSFER may move between.
var validTransferPairs = map[[2]models.SubwalletType]bool{
	{models.SubwalletRealMoney, models.SubwalletEmergencyFund}: true,
	{models.SubwalletEmergencyFund, models.SubwalletRealMoney}: true,
}

// transfer moves available funds between a customer's real-money and
// emergency-fund buckets. The movement is mirrored externally through the
// partner before any entries are posted.
type transfer struct {
	*deps
}

func (b transfer) validate(ctx context.Context, tx *models.Transaction) error {
	if tx.BeneficiaryWalletID == nil || tx.BeneficiarySubwalletType == nil {
		return fmt.Errorf("%w: beneficiary required", ErrTransferNotAllowed)
	}
	pair := [2]models.SubwalletType{tx.OriginatorSubwalletType, *tx.BeneficiarySubwalletType}
	if !validTransferPairs[pair] {
		return fmt.Errorf("%w between %s and %s subwallets",
			ErrTransferNotAllowed, tx.OriginatorSubwalletType, *tx.BeneficiarySubwalletType)
	}
	return b.validateAvailableBalance(ctx, tx)
}

func (b transfer) execute(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := b.partner.ExecuteInternalTransfer(ctx, tx); err != nil {
		return nil, err
	}

	postedAt, err := b.ledger.PostJournalEntries(ctx, b.entries(tx))
	if err != nil {
		return nil, err
	}
	return b.finalize(ctx, tx, models.StatusCompleted, postedAt)
}

func (b transfer) entries(tx *models.Transaction) []models.JournalEntryDraft {
	return []models.JournalEntryDraft{
		{
			WalletID:      &tx.OriginatorWalletID,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceAvailable,
			Amount:        tx.Amount.Neg(),
		},
		{
			WalletID:      tx.BeneficiaryWalletID,
			SubwalletType: *tx.BeneficiarySubwalletType,
			BalanceType:   models.BalanceAvailable,
			Amount:        tx.Amount,
		},
	}
}

func (b transfer) reversalEntries(tx *models.Transaction) []models.JournalEntryDraft {
	return negated(b.entries(tx))
}
