package transaction

import (
	"context"
	"fmt"

	"finch/internal/models"
)

// transferFromHold consumes previously held funds, moving them from the
// originator's HOLDING balance into the beneficiary's AVAILABLE balance.
// This is the leg that completes an investment or liquidation.
type transferFromHold struct {
	*deps
}

func (b transferFromHold) validate(ctx context.Context, tx *models.Transaction) error {
	if tx.BeneficiaryWalletID == nil || tx.BeneficiarySubwalletType == nil {
		return fmt.Errorf("%w: beneficiary required", ErrTransferFromHoldNotAllowed)
	}

	originator, err := b.wallets.GetByID(ctx, tx.OriginatorWalletID)
	if err != nil {
		return fmt.Errorf("%w: originator wallet %s: %v", ErrTransferFromHoldNotAllowed, tx.OriginatorWalletID, err)
	}
	beneficiary, err := b.wallets.GetByID(ctx, *tx.BeneficiaryWalletID)
	if err != nil {
		return fmt.Errorf("%w: beneficiary wallet %s: %v", ErrTransferFromHoldNotAllowed, *tx.BeneficiaryWalletID, err)
	}

	validPair := (originator.Type == models.WalletTypeRealMoney && beneficiary.Type == models.WalletTypeInvestment) ||
		(originator.Type == models.WalletTypeInvestment && beneficiary.Type == models.WalletTypeRealMoney)
	if !validPair {
		return fmt.Errorf("%w between wallets %s and %s",
			ErrTransferFromHoldNotAllowed, originator.ID, beneficiary.ID)
	}

	held, err := b.ledger.GetBalance(ctx, originator.ID, []models.BalanceQuery{
		{SubwalletType: tx.OriginatorSubwalletType, BalanceType: models.BalanceHolding},
	})
	if err != nil {
		return err
	}
	if tx.Amount.GreaterThan(held) {
		return fmt.Errorf("%w: wallet %s has %s held on %s, requested %s",
			ErrInsufficientFunds, originator.ID, held, tx.OriginatorSubwalletType, tx.Amount)
	}
	return nil
}

func (b transferFromHold) execute(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := b.partner.ExecuteInternalTransfer(ctx, tx); err != nil {
		return nil, err
	}

	postedAt, err := b.ledger.PostJournalEntries(ctx, b.entries(tx))
	if err != nil {
		return nil, err
	}
	return b.finalize(ctx, tx, models.StatusCompleted, postedAt)
}

func (b transferFromHold) entries(tx *models.Transaction) []models.JournalEntryDraft {
	return []models.JournalEntryDraft{
		{
			WalletID:      &tx.OriginatorWalletID,
			SubwalletType: tx.OriginatorSubwalletType,
			BalanceType:   models.BalanceHolding,
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

func (b transferFromHold) reversalEntries(tx *models.Transaction) []models.JournalEntryDraft {
	return negated(b.entries(tx))
}
