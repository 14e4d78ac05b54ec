package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a Postgres-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.StatusProcessing
	}
	if tx.InsertedAt.IsZero() {
		tx.InsertedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).First(&tx, "idempotency_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) Find(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.ID != "" {
		q = q.Where("id = ?", filter.ID)
	}
	if filter.BatchID != "" {
		q = q.Where("batch_id = ?", filter.BatchID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if len(filter.SubwalletTypes) > 0 {
		q = q.Where("originator_subwallet_type IN ?", filter.SubwalletTypes)
	}

	var txs []*models.Transaction
	if err := q.Order("inserted_at").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	return txs, nil
}

// UpdateStatus applies the status change under a row lock so the transition
// guard holds even when two workers race on the same transaction.
func (r *transactionRepository) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus, reason string, at time.Time) (*models.Transaction, error) {
	var updated models.Transaction

	err := r.db.WithContext(ctx).Transaction(func(dtx *gorm.DB) error {
		var tx models.Transaction
		err := dtx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tx, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if !tx.Status.CanTransitionTo(status) {
			return &StatusTransitionError{TransactionID: id, From: tx.Status, To: status}
		}

		tx.Status = status
		tx.StatusReason = reason
		switch status {
		case models.StatusCompleted:
			tx.CompletedAt = &at
		case models.StatusFailed:
			tx.FailedAt = &at
		}

		if err := dtx.Save(&tx).Error; err != nil {
			return err
		}
		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkReversed records the reversal timestamp once; later calls are no-ops
// so a double reversal never posts undo entries twice.
func (r *transactionRepository) MarkReversed(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND reversed_at IS NULL", id).
		Update("reversed_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to mark transaction reversed: %w", res.Error)
	}
	return nil
}
