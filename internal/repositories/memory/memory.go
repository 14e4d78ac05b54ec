// Package memory holds map-backed implementations of the repository
// interfaces. They exist for tests and local development; production wiring
// uses the Postgres repositories.
package memory

import (
	"context"
	"sync"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]models.Wallet
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{wallets: make(map[string]models.Wallet)}
}

func (r *WalletRepository) Create(_ context.Context, wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wallet.ID == "" {
		wallet.ID = uuid.NewString()
	}
	if wallet.InsertedAt.IsZero() {
		wallet.InsertedAt = time.Now().UTC()
	}
	r.wallets[wallet.ID] = *wallet
	return nil
}

func (r *WalletRepository) GetByID(_ context.Context, id string) (*models.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wallet, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &wallet, nil
}

func (r *WalletRepository) Find(_ context.Context, filter repositories.WalletFilter) ([]*models.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Wallet
	for _, wallet := range r.wallets {
		if filter.CustomerID != "" && wallet.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Type != "" && wallet.Type != filter.Type {
			continue
		}
		w := wallet
		out = append(out, &w)
	}
	return out, nil
}

type TransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]models.Transaction
	byKey        map[string]string
	order        []string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]models.Transaction),
		byKey:        make(map[string]string),
	}
}

func (r *TransactionRepository) Insert(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[tx.IdempotencyKey]; exists {
		return repositories.ErrDuplicateIdempotencyKey
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.StatusProcessing
	}
	if tx.InsertedAt.IsZero() {
		tx.InsertedAt = time.Now().UTC()
	}
	r.transactions[tx.ID] = *tx
	r.byKey[tx.IdempotencyKey] = tx.ID
	r.order = append(r.order, tx.ID)
	return nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *TransactionRepository) GetByIdempotencyKey(_ context.Context, key string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[key]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	tx := r.transactions[id]
	return &tx, nil
}

func (r *TransactionRepository) Find(_ context.Context, filter repositories.TransactionFilter) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, id := range r.order {
		tx := r.transactions[id]
		if filter.ID != "" && tx.ID != filter.ID {
			continue
		}
		if filter.BatchID != "" && (tx.BatchID == nil || *tx.BatchID != filter.BatchID) {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if len(filter.SubwalletTypes) > 0 && !contains(filter.SubwalletTypes, tx.OriginatorSubwalletType) {
			continue
		}
		t := tx
		out = append(out, &t)
	}
	return out, nil
}

func (r *TransactionRepository) UpdateStatus(_ context.Context, id string, status models.TransactionStatus, reason string, at time.Time) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	if !tx.Status.CanTransitionTo(status) {
		return nil, &repositories.StatusTransitionError{TransactionID: id, From: tx.Status, To: status}
	}

	tx.Status = status
	tx.StatusReason = reason
	switch status {
	case models.StatusCompleted:
		tx.CompletedAt = &at
	case models.StatusFailed:
		tx.FailedAt = &at
	}
	r.transactions[id] = tx
	return &tx, nil
}

func (r *TransactionRepository) MarkReversed(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	if tx.ReversedAt == nil {
		tx.ReversedAt = &at
		r.transactions[id] = tx
	}
	return nil
}

type LedgerRepository struct {
	mu      sync.Mutex
	entries []models.JournalEntry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) AppendEntries(_ context.Context, drafts []models.JournalEntryDraft) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	postedAt := time.Now().UTC()
	for _, draft := range drafts {
		r.entries = append(r.entries, models.JournalEntry{
			ID:            uuid.NewString(),
			WalletID:      draft.WalletID,
			SubwalletType: draft.SubwalletType,
			BalanceType:   draft.BalanceType,
			Amount:        draft.Amount,
			PostedAt:      postedAt,
		})
	}
	return postedAt, nil
}

func (r *LedgerRepository) SumBalance(_ context.Context, walletID string, queries []models.BalanceQuery) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, entry := range r.entries {
		if entry.WalletID == nil || *entry.WalletID != walletID {
			continue
		}
		for _, q := range queries {
			if entry.SubwalletType == q.SubwalletType && entry.BalanceType == q.BalanceType {
				sum = sum.Add(entry.Amount)
				break
			}
		}
	}
	return sum, nil
}

// Entries returns a snapshot of all posted entries, oldest first.
func (r *LedgerRepository) Entries() []models.JournalEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.JournalEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

type PolicyRepository struct {
	mu       sync.RWMutex
	policies map[string]models.InvestmentPolicy
}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{policies: make(map[string]models.InvestmentPolicy)}
}

func (r *PolicyRepository) Insert(_ context.Context, strategy models.AllocationStrategy) (*models.InvestmentPolicy, error) {
	if err := repositories.ValidateAllocationStrategy(strategy); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	policy := models.InvestmentPolicy{
		ID:                 uuid.NewString(),
		AllocationStrategy: strategy,
		InsertedAt:         time.Now().UTC(),
	}
	r.policies[policy.ID] = policy
	return &policy, nil
}

func (r *PolicyRepository) GetByID(_ context.Context, id string) (*models.InvestmentPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	policy, ok := r.policies[id]
	if !ok {
		return nil, repositories.ErrPolicyNotFound
	}
	return &policy, nil
}

func contains(types []models.SubwalletType, t models.SubwalletType) bool {
	for _, st := range types {
		if st == t {
			return true
		}
	}
	return false
}
