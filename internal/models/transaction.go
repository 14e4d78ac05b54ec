package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdraw         TransactionType = "WITHDRAW"
	TransactionTypeHold             TransactionType = "HOLD"
	TransactionTypeTransfer         TransactionType = "TRANSFER"
	TransactionTypeTransferFromHold TransactionType = "TRANSFER_FROM_HOLD"
)

type TransactionStatus string

const (
	// StatusCreating is a legal initial state in the transition table but no
	// code path currently produces it; kept for forward compatibility.
	StatusCreating       TransactionStatus = "CREATING"
	StatusProcessing     TransactionStatus = "PROCESSING"
	StatusCompleted      TransactionStatus = "COMPLETED"
	StatusFailed         TransactionStatus = "FAILED"
	StatusTransientError TransactionStatus = "TRANSIENT_ERROR"
)

// allowedTransitions is the status state machine. COMPLETED and FAILED are
// terminal. TRANSIENT_ERROR may be promoted to COMPLETED or FAILED by an
// out-of-band retry.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusCreating:       {StatusCreating, StatusProcessing, StatusTransientError},
	StatusProcessing:     {StatusProcessing, StatusCompleted, StatusFailed, StatusTransientError},
	StatusCompleted:      {StatusCompleted},
	StatusFailed:         {StatusFailed},
	StatusTransientError: {StatusTransientError, StatusCompleted, StatusFailed},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition can ever leave s.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Transaction is one typed money movement. BatchID groups the legs of a
// single customer intent; the idempotency key is the caller's token for
// exactly-once submission and re-lookup after partner or storage errors.
// Beneficiary fields are set only for TRANSFER and TRANSFER_FROM_HOLD.
type Transaction struct {
	ID                       string          `gorm:"primarykey;type:uuid"`
	BatchID                  *string         `gorm:"index"`
	Amount                   decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	IdempotencyKey           string          `gorm:"uniqueIndex;not null"`
	OriginatorWalletID       string          `gorm:"type:uuid;not null;index"`
	OriginatorSubwalletType  SubwalletType   `gorm:"not null;index"`
	BeneficiaryWalletID      *string         `gorm:"type:uuid"`
	BeneficiarySubwalletType *SubwalletType
	Type                     TransactionType   `gorm:"not null"`
	Status                   TransactionStatus `gorm:"not null;index"`
	StatusReason             string
	Metadata                 JSON `gorm:"type:jsonb"`
	InsertedAt               time.Time
	CompletedAt              *time.Time
	FailedAt                 *time.Time
	ReversedAt               *time.Time
}
