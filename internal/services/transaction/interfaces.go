package transaction

import (
	"context"
	"time"

	"finch/internal/models"

	"github.com/shopspring/decimal"
)

// Ledger is the slice of the ledger service the behaviors need.
type Ledger interface {
	PostJournalEntries(ctx context.Context, drafts []models.JournalEntryDraft) (time.Time, error)
	GetBalance(ctx context.Context, walletID string, queries []models.BalanceQuery) (decimal.Decimal, error)
}

// Partner executes the external side of a transfer; any error it returns is
// treated as transient.
type Partner interface {
	ExecuteInternalTransfer(ctx context.Context, tx *models.Transaction) error
}

// Service is the transaction processing pipeline: insert, validate, execute,
// classify. Process never returns an error for a failure it could record on
// the transaction itself; callers inspect the returned status.
type Service interface {
	Process(ctx context.Context, req Request) (*models.Transaction, error)
	ProcessAll(ctx context.Context, reqs []Request) error
	Reverse(ctx context.Context, tx *models.Transaction) error
	ReverseAndFailBatch(ctx context.Context, batchID, reason string) error
	RetryBatch(ctx context.Context, batchID string, maxAttempts int) error
}
