// Package ledger exposes the append-and-sum engine over the journal entry
// log. It performs no validation on purpose: transaction behaviors are
// responsible for posting balanced batches, which keeps the audit log a
// plain, trustworthy record of what happened.
package ledger

import (
	"context"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service is the ledger store contract used by transaction behaviors.
type Service interface {
	PostJournalEntries(ctx context.Context, drafts []models.JournalEntryDraft) (time.Time, error)
	GetBalance(ctx context.Context, walletID string, queries []models.BalanceQuery) (decimal.Decimal, error)
	AvailableBalance(ctx context.Context, wallet *models.Wallet) (decimal.Decimal, error)
}

type service struct {
	repo repositories.LedgerRepository
}

// NewService creates a new ledger service.
func NewService(repo repositories.LedgerRepository) Service {
	if repo == nil {
		panic("ledger repository is required")
	}
	return &service{repo: repo}
}

// PostJournalEntries appends the batch atomically and returns the shared
// posted-at timestamp.
func (s *service) PostJournalEntries(ctx context.Context, drafts []models.JournalEntryDraft) (time.Time, error) {
	return s.repo.AppendEntries(ctx, drafts)
}

// GetBalance sums the entries of walletID matching any of the given
// (subwallet, balance) pairs. No matching entries means zero.
func (s *service) GetBalance(ctx context.Context, walletID string, queries []models.BalanceQuery) (decimal.Decimal, error) {
	return s.repo.SumBalance(ctx, walletID, queries)
}

// AvailableBalance computes the wallet's spendable balance using the query
// set fixed by its wallet type.
func (s *service) AvailableBalance(ctx context.Context, wallet *models.Wallet) (decimal.Decimal, error) {
	return s.repo.SumBalance(ctx, wallet.ID, wallet.Type.AvailableBalanceQueries())
}
