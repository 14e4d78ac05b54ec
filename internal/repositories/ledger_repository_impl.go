package repositories

import (
	"context"
	"fmt"
	"time"

	"finch/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a Postgres-backed journal entry log.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// AppendEntries inserts the batch in a single database transaction; the
// Hold and Transfer postings rely on this all-or-nothing behavior.
func (r *ledgerRepository) AppendEntries(ctx context.Context, drafts []models.JournalEntryDraft) (time.Time, error) {
	postedAt := time.Now().UTC()

	entries := make([]models.JournalEntry, 0, len(drafts))
	for _, draft := range drafts {
		entries = append(entries, models.JournalEntry{
			ID:            uuid.NewString(),
			WalletID:      draft.WalletID,
			SubwalletType: draft.SubwalletType,
			BalanceType:   draft.BalanceType,
			Amount:        draft.Amount,
			PostedAt:      postedAt,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(dtx *gorm.DB) error {
		return dtx.Create(&entries).Error
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to post journal entries: %w", err)
	}
	return postedAt, nil
}

func (r *ledgerRepository) SumBalance(ctx context.Context, walletID string, queries []models.BalanceQuery) (decimal.Decimal, error) {
	if len(queries) == 0 {
		return decimal.Zero, nil
	}

	cond := r.db.Where("subwallet_type = ? AND balance_type = ?", queries[0].SubwalletType, queries[0].BalanceType)
	for _, q := range queries[1:] {
		cond = cond.Or("subwallet_type = ? AND balance_type = ?", q.SubwalletType, q.BalanceType)
	}

	var sum decimal.Decimal
	row := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("wallet_id = ?", walletID).
		Where(cond).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balance: %w", err)
	}
	return sum, nil
}
