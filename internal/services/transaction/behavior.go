package transaction

import (
	"context"
	"fmt"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"
)

// behavior is the type-specific half of the pipeline. validate checks
// preconditions, execute posts journal entries and finalizes status (calling
// the partner first where the movement must be mirrored externally), and
// reversalEntries produces the mirror-image drafts undoing execute's
// postings.
type behavior interface {
	validate(ctx context.Context, tx *models.Transaction) error
	execute(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	reversalEntries(tx *models.Transaction) []models.JournalEntryDraft
}

// deps carries the collaborators shared by all behaviors.
type deps struct {
	transactions repositories.TransactionRepository
	wallets      repositories.WalletRepository
	ledger       Ledger
	partner      Partner
}

// validateExternalTransaction restricts deposits and withdrawals to the
// REAL_MONEY subwallet; external money only ever enters or leaves there.
func (d *deps) validateExternalTransaction(tx *models.Transaction) error {
	if tx.OriginatorSubwalletType != models.SubwalletRealMoney {
		return fmt.Errorf("%w on %s subwallet", ErrExternalTransactionNotAllowed, tx.OriginatorSubwalletType)
	}
	return nil
}

// validateAvailableBalance rejects amounts exceeding the originator wallet's
// available balance. An amount exactly equal to the balance is allowed.
func (d *deps) validateAvailableBalance(ctx context.Context, tx *models.Transaction) error {
	wallet, err := d.wallets.GetByID(ctx, tx.OriginatorWalletID)
	if err != nil {
		return fmt.Errorf("%w: originator wallet %s: %v", ErrInsufficientFunds, tx.OriginatorWalletID, err)
	}

	balance, err := d.ledger.GetBalance(ctx, wallet.ID, wallet.Type.AvailableBalanceQueries())
	if err != nil {
		return err
	}
	if tx.Amount.GreaterThan(balance) {
		return fmt.Errorf("%w: wallet %s has %s available, requested %s",
			ErrInsufficientFunds, wallet.ID, balance, tx.Amount)
	}
	return nil
}

// finalize posts the status transition that concludes execute.
func (d *deps) finalize(ctx context.Context, tx *models.Transaction, status models.TransactionStatus, at time.Time) (*models.Transaction, error) {
	return d.transactions.UpdateStatus(ctx, tx.ID, status, "", at)
}

func negated(drafts []models.JournalEntryDraft) []models.JournalEntryDraft {
	out := make([]models.JournalEntryDraft, 0, len(drafts))
	for _, draft := range drafts {
		draft.Amount = draft.Amount.Neg()
		out = append(out, draft)
	}
	return out
}
