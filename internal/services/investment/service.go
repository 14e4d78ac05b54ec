// Package investment fans single customer intents out across the allocation
// strategy of an investment policy and runs the periodic drivers that move
// held funds into and out of investment subwallets. The fan-out is not
// atomic across legs: a leg failing validation leaves earlier legs posted,
// and unwinding them is the caller's job.
package investment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/services/transaction"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Processor is the slice of the transaction service the fan-out drives.
type Processor interface {
	Process(ctx context.Context, req transaction.Request) (*models.Transaction, error)
	Reverse(ctx context.Context, tx *models.Transaction) error
}

// Service fans movement requests into per-subwallet transaction legs and
// reconciles the resulting batches.
type Service interface {
	ExecuteMovementWithPolicy(ctx context.Context, req MovementRequest) error
	BuyFunds(ctx context.Context) error
	SellFunds(ctx context.Context) error
}

type service struct {
	transactions repositories.TransactionRepository
	wallets      repositories.WalletRepository
	policies     repositories.PolicyRepository
	processor    Processor
}

// NewService creates the investment allocation service.
func NewService(
	transactions repositories.TransactionRepository,
	wallets repositories.WalletRepository,
	policies repositories.PolicyRepository,
	processor Processor,
) Service {
	if transactions == nil {
		panic("transaction repository is required")
	}
	if wallets == nil {
		panic("wallet repository is required")
	}
	if policies == nil {
		panic("policy repository is required")
	}
	if processor == nil {
		panic("transaction processor is required")
	}
	return &service{
		transactions: transactions,
		wallets:      wallets,
		policies:     policies,
		processor:    processor,
	}
}

// ExecuteMovementWithPolicy builds one transaction leg per allocation
// strategy entry, each carrying amount*percentage, a per-subwallet
// idempotency key and the request's idempotency key as batch id. A leg that
// fails validation aborts the fan-out with ErrBatchFailed; a leg left in
// TRANSIENT_ERROR does not, since those legs are retried out of band.
func (s *service) ExecuteMovementWithPolicy(ctx context.Context, req MovementRequest) error {
	for subwallet, percentage := range req.Policy.AllocationStrategy {
		legReq, err := s.buildLegRequest(req, subwallet, percentage)
		if err != nil {
			return err
		}

		leg, err := s.processor.Process(ctx, legReq)
		if err != nil {
			return err
		}

		switch leg.Status {
		case models.StatusFailed:
			return fmt.Errorf("%w: leg %s: %s", ErrBatchFailed, leg.ID, leg.StatusReason)
		case models.StatusTransientError:
			log.Warn().
				Str("transaction_id", leg.ID).
				Str("batch_id", req.IdempotencyKey).
				Msg("fan-out leg left in transient error, will be retried")
		}
	}
	return nil
}

func (s *service) buildLegRequest(req MovementRequest, subwallet models.SubwalletType, percentage decimal.Decimal) (transaction.Request, error) {
	legReq := transaction.Request{
		Amount:         req.Amount.Mul(percentage),
		BatchID:        req.IdempotencyKey,
		IdempotencyKey: fmt.Sprintf("%s_%s", req.IdempotencyKey, subwallet),
		Type:           req.Type,
	}

	switch req.Type {
	case models.TransactionTypeHold:
		legReq.OriginatorWalletID = req.WalletID
		legReq.OriginatorSubwalletType = subwallet
	case models.TransactionTypeTransferFromHold:
		if req.OriginatorSubwalletType == "" {
			return transaction.Request{}, ErrMissingOriginatorSubwallet
		}
		legReq.OriginatorWalletID = req.WalletID
		legReq.OriginatorSubwalletType = req.OriginatorSubwalletType
		legReq.BeneficiaryWalletID = req.TargetWalletID
		legReq.BeneficiarySubwalletType = subwallet
	default:
		return transaction.Request{}, fmt.Errorf("%w: %s", ErrMovementTypeNotAllowed, req.Type)
	}
	return legReq, nil
}

// BuyFunds drives the second leg of investment intents: for every open hold
// on a REAL_MONEY subwallet it fans TRANSFER_FROM_HOLD legs into the
// customer's investment wallet per policy, then completes the hold once its
// batch has no transient legs left. A batch that failed validation is logged
// and left for reconciliation; legs executed before the failing one may have
// moved money with the partner already and cannot be unwound here.
func (s *service) BuyFunds(ctx context.Context) error {
	holds, err := s.transactions.Find(ctx, repositories.TransactionFilter{
		Type:           models.TransactionTypeHold,
		Status:         models.StatusProcessing,
		SubwalletTypes: []models.SubwalletType{models.SubwalletRealMoney},
	})
	if err != nil {
		return err
	}

	for _, hold := range holds {
		wallet, err := s.wallets.GetByID(ctx, hold.OriginatorWalletID)
		if err != nil {
			return err
		}
		policy, err := s.policies.GetByID(ctx, wallet.PolicyID)
		if err != nil {
			return err
		}
		investmentWallet, err := s.findCustomerWallet(ctx, wallet.CustomerID, models.WalletTypeInvestment)
		if err != nil {
			return err
		}

		err = s.ExecuteMovementWithPolicy(ctx, MovementRequest{
			Amount:                  hold.Amount,
			IdempotencyKey:          hold.ID,
			WalletID:                hold.OriginatorWalletID,
			TargetWalletID:          investmentWallet.ID,
			Policy:                  policy,
			Type:                    models.TransactionTypeTransferFromHold,
			OriginatorSubwalletType: models.SubwalletRealMoney,
		})
		if err != nil {
			if errors.Is(err, ErrBatchFailed) {
				log.Error().Err(err).
					Str("transaction_id", hold.ID).
					Msg("buy funds batch failed, needs reconciliation")
				continue
			}
			return err
		}

		if err := s.completeIfBatchSettled(ctx, hold); err != nil {
			return err
		}
	}
	return nil
}

// SellFunds drives the second leg of liquidation intents: every open hold on
// an investable subwallet is moved back into the customer's REAL_MONEY
// wallet with a single TRANSFER_FROM_HOLD. The hold completes with the
// movement, or is reversed and failed when the movement could not complete.
func (s *service) SellFunds(ctx context.Context) error {
	holds, err := s.transactions.Find(ctx, repositories.TransactionFilter{
		Type:           models.TransactionTypeHold,
		Status:         models.StatusProcessing,
		SubwalletTypes: models.InvestableSubwallets,
	})
	if err != nil {
		return err
	}

	for _, hold := range holds {
		wallet, err := s.wallets.GetByID(ctx, hold.OriginatorWalletID)
		if err != nil {
			return err
		}
		realMoneyWallet, err := s.findCustomerWallet(ctx, wallet.CustomerID, models.WalletTypeRealMoney)
		if err != nil {
			return err
		}

		movement, err := s.processor.Process(ctx, transaction.Request{
			Amount:                   hold.Amount,
			IdempotencyKey:           hold.ID,
			OriginatorWalletID:       hold.OriginatorWalletID,
			OriginatorSubwalletType:  hold.OriginatorSubwalletType,
			BeneficiaryWalletID:      realMoneyWallet.ID,
			BeneficiarySubwalletType: models.SubwalletRealMoney,
			Type:                     models.TransactionTypeTransferFromHold,
		})
		if err != nil {
			return err
		}

		if movement.Status == models.StatusCompleted {
			if _, err := s.transactions.UpdateStatus(ctx, hold.ID, models.StatusCompleted, "", time.Now().UTC()); err != nil {
				return err
			}
			continue
		}

		log.Error().
			Str("transaction_id", hold.ID).
			Str("movement_id", movement.ID).
			Str("movement_status", string(movement.Status)).
			Msg("liquidation movement did not complete, reversing hold")
		if err := s.processor.Reverse(ctx, hold); err != nil {
			return err
		}
		if _, err := s.transactions.UpdateStatus(ctx, hold.ID, models.StatusFailed, "liquidation movement failed", time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

// completeIfBatchSettled promotes the originating hold to COMPLETED once no
// leg of its batch remains in TRANSIENT_ERROR.
func (s *service) completeIfBatchSettled(ctx context.Context, hold *models.Transaction) error {
	transientLegs, err := s.transactions.Find(ctx, repositories.TransactionFilter{
		BatchID: hold.ID,
		Status:  models.StatusTransientError,
	})
	if err != nil {
		return err
	}
	if len(transientLegs) > 0 {
		log.Warn().
			Str("transaction_id", hold.ID).
			Int("transient_legs", len(transientLegs)).
			Msg("batch has transient legs, hold left open")
		return nil
	}

	_, err = s.transactions.UpdateStatus(ctx, hold.ID, models.StatusCompleted, "", time.Now().UTC())
	return err
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
