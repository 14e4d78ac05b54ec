package repositories

import (
	"context"
	"time"

	"finch/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerRepository is the append-only journal entry log. AppendEntries posts
// the whole batch or nothing, all entries sharing one posted-at timestamp.
// SumBalance returns zero, not an error, when no entries match.
type LedgerRepository interface {
	AppendEntries(ctx context.Context, drafts []models.JournalEntryDraft) (time.Time, error)
	SumBalance(ctx context.Context, walletID string, queries []models.BalanceQuery) (decimal.Decimal, error)
}

// PolicyRepository stores immutable investment allocation policies.
type PolicyRepository interface {
	Insert(ctx context.Context, strategy models.AllocationStrategy) (*models.InvestmentPolicy, error)
	GetByID(ctx context.Context, id string) (*models.InvestmentPolicy, error)
}
