// Package wallet is the customer-intent layer: invest, liquidate and
// balance lookups expressed against the customer's wallets rather than raw
// transactions.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/services/investment"
	"finch/internal/services/ledger"
	"finch/internal/services/transaction"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Processor is the slice of the transaction service this layer drives.
type Processor interface {
	Process(ctx context.Context, req transaction.Request) (*models.Transaction, error)
	ReverseAndFailBatch(ctx context.Context, batchID, reason string) error
}

// Allocator fans a movement across an investment policy.
type Allocator interface {
	ExecuteMovementWithPolicy(ctx context.Context, req investment.MovementRequest) error
}

// Service exposes the customer-facing wallet operations.
type Service interface {
	CreateWallet(ctx context.Context, customerID string, walletType models.WalletType, policyID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, id string) (*models.Wallet, error)
	AvailableBalance(ctx context.Context, walletID string) (decimal.Decimal, error)
	Invest(ctx context.Context, req InvestmentRequest) error
	Liquidate(ctx context.Context, req LiquidationRequest) error
}

type service struct {
	wallets   repositories.WalletRepository
	policies  repositories.PolicyRepository
	ledger    ledger.Service
	processor Processor
	allocator Allocator
}

// NewService creates the wallet service.
func NewService(
	wallets repositories.WalletRepository,
	policies repositories.PolicyRepository,
	ledgerSvc ledger.Service,
	processor Processor,
	allocator Allocator,
) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if policies == nil {
		panic("policy repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if processor == nil {
		panic("transaction processor is required")
	}
	if allocator == nil {
		panic("investment allocator is required")
	}
	return &service{
		wallets:   wallets,
		policies:  policies,
		ledger:    ledgerSvc,
		processor: processor,
		allocator: allocator,
	}
}

// CreateWallet registers a new wallet for the customer. The policy must
// exist before an investment or real-money wallet can reference it.
func (s *service) CreateWallet(ctx context.Context, customerID string, walletType models.WalletType, policyID string) (*models.Wallet, error) {
	if policyID != "" {
		if _, err := s.policies.GetByID(ctx, policyID); err != nil {
			return nil, err
		}
	}

	wallet := &models.Wallet{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Type:       walletType,
		PolicyID:   policyID,
	}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	return s.wallets.GetByID(ctx, id)
}

// AvailableBalance computes the wallet's spendable balance from its journal
// entries using the query set fixed by the wallet type.
func (s *service) AvailableBalance(ctx context.Context, walletID string) (decimal.Decimal, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.ledger.AvailableBalance(ctx, wallet)
}

// Invest earmarks the amount on the customer's real-money wallet with a
// single hold. The hold stays open until the buy-funds driver moves it into
// the investment wallet.
func (s *service) Invest(ctx context.Context, req InvestmentRequest) error {
	wallet, err := s.findCustomerWallet(ctx, req.CustomerID, models.WalletTypeRealMoney)
	if err != nil {
		return err
	}

	hold, err := s.processor.Process(ctx, transaction.Request{
		Amount:                  req.Amount,
		IdempotencyKey:          req.IdempotencyKey,
		OriginatorWalletID:      wallet.ID,
		OriginatorSubwalletType: models.SubwalletRealMoney,
		Type:                    models.TransactionTypeHold,
	})
	if err != nil {
		return err
	}

	if hold.Status != models.StatusProcessing {
		return fmt.Errorf("%w: hold %s ended %s: %s", ErrInvestmentFailed, hold.ID, hold.Status, hold.StatusReason)
	}
	return nil
}

// Liquidate places holds across the investment wallet's subwallets per the
// wallet's policy. When a leg fails validation the already-placed holds are
// unwound and the intent fails as a whole; the sell-funds driver picks up
// the surviving holds otherwise.
func (s *service) Liquidate(ctx context.Context, req LiquidationRequest) error {
	wallet, err := s.findCustomerWallet(ctx, req.CustomerID, models.WalletTypeInvestment)
	if err != nil {
		return err
	}
	policy, err := s.policies.GetByID(ctx, wallet.PolicyID)
	if err != nil {
		return err
	}

	err = s.allocator.ExecuteMovementWithPolicy(ctx, investment.MovementRequest{
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
		WalletID:       wallet.ID,
		Policy:         policy,
		Type:           models.TransactionTypeHold,
	})
	if err != nil {
		if errors.Is(err, investment.ErrBatchFailed) {
			log.Error().Err(err).
				Str("batch_id", req.IdempotencyKey).
				Msg("liquidation batch failed, unwinding holds")
			if reverseErr := s.processor.ReverseAndFailBatch(ctx, req.IdempotencyKey, "liquidation failed"); reverseErr != nil {
				return reverseErr
			}
			return fmt.Errorf("%w: %v", ErrLiquidationFailed, err)
		}
		return err
	}
	return nil
}

func (s *service) findCustomerWallet(ctx context.Context, customerID string, walletType models.WalletType) (*models.Wallet, error) {
	wallets, err := s.wallets.Find(ctx, repositories.WalletFilter{CustomerID: customerID, Type: walletType})
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("%w: customer %s has no %s wallet", repositories.ErrWalletNotFound, customerID, walletType)
	}
	return wallets[0], nil
}
