package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a Postgres-backed wallet repository.
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.NewString()
	}
	if wallet.InsertedAt.IsZero() {
		wallet.InsertedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Find(ctx context.Context, filter WalletFilter) ([]*models.Wallet, error) {
	q := r.db.WithContext(ctx).Model(&models.Wallet{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var wallets []*models.Wallet
	if err := q.Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to find wallets: %w", err)
	}
	return wallets, nil
}
