package repositories

import (
	"errors"
	"fmt"

	"finch/internal/models"
)

var (
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrPolicyNotFound          = errors.New("investment policy not found")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrInvalidAllocation       = errors.New("allocation strategy percentages must sum to 1")
)

// StatusTransitionError is returned when an update would move a transaction
// along an edge the state machine does not allow.
type StatusTransitionError struct {
	TransactionID string
	From          models.TransactionStatus
	To            models.TransactionStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("transaction %s: status transition from %s to %s not allowed", e.TransactionID, e.From, e.To)
}
