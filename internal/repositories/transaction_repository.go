package repositories

import (
	"context"
	"time"

	"finch/internal/models"
)

// TransactionFilter narrows a transaction lookup; zero fields are ignored
// and the set fields are AND-combined. SubwalletTypes matches when the
// originating subwallet type is a member.
type TransactionFilter struct {
	ID             string
	BatchID        string
	Type           models.TransactionType
	Status         models.TransactionStatus
	SubwalletTypes []models.SubwalletType
}

// TransactionRepository persists transaction records and owns the status
// state machine: UpdateStatus rejects illegal transitions with a
// *StatusTransitionError, even under concurrent updates to the same record.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error)
	Find(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus, reason string, at time.Time) (*models.Transaction, error)
	MarkReversed(ctx context.Context, id string, at time.Time) error
}
