package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finch/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a Postgres-backed investment policy store.
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Insert(ctx context.Context, strategy models.AllocationStrategy) (*models.InvestmentPolicy, error) {
	if err := ValidateAllocationStrategy(strategy); err != nil {
		return nil, err
	}

	policy := &models.InvestmentPolicy{
		ID:                 uuid.NewString(),
		AllocationStrategy: strategy,
		InsertedAt:         time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(policy).Error; err != nil {
		return nil, fmt.Errorf("failed to insert investment policy: %w", err)
	}
	return policy, nil
}

func (r *policyRepository) GetByID(ctx context.Context, id string) (*models.InvestmentPolicy, error) {
	var policy models.InvestmentPolicy
	err := r.db.WithContext(ctx).First(&policy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get investment policy: %w", err)
	}
	return &policy, nil
}

// ValidateAllocationStrategy rejects strategies whose fractions fall outside
// [0, 1] or do not sum to exactly 1.
func ValidateAllocationStrategy(strategy models.AllocationStrategy) error {
	one := decimal.NewFromInt(1)
	for st, pct := range strategy {
		if pct.IsNegative() || pct.GreaterThan(one) {
			return fmt.Errorf("%w: %s has fraction %s", ErrInvalidAllocation, st, pct)
		}
	}
	if !strategy.Sum().Equal(one) {
		return fmt.Errorf("%w: got %s", ErrInvalidAllocation, strategy.Sum())
	}
	return nil
}
