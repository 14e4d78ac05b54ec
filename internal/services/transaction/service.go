package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/services/partner"

	"github.com/rs/zerolog/log"
)

type service struct {
	deps
	behaviors map[models.TransactionType]behavior
	locks     *keyedMutex
}

// NewService creates the transaction processing service.
func NewService(
	transactions repositories.TransactionRepository,
	wallets repositories.WalletRepository,
	ledgerSvc Ledger,
	partnerClient Partner,
) Service {
	if transactions == nil {
		panic("transaction repository is required")
	}
	if wallets == nil {
		panic("wallet repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if partnerClient == nil {
		panic("partner client is required")
	}

	s := &service{locks: newKeyedMutex()}
	s.deps = deps{
		transactions: transactions,
		wallets:      wallets,
		ledger:       ledgerSvc,
		partner:      partnerClient,
	}
	s.behaviors = map[models.TransactionType]behavior{
		models.TransactionTypeDeposit:          deposit{&s.deps},
		models.TransactionTypeWithdraw:         withdraw{&s.deps},
		models.TransactionTypeHold:             hold{&s.deps},
		models.TransactionTypeTransfer:         transfer{&s.deps},
		models.TransactionTypeTransferFromHold: transferFromHold{&s.deps},
	}
	return s
}

// Process inserts the transaction, validates it, executes it and records
// the outcome on its status. Validation failures mark the transaction
// FAILED; partner and storage failures mark it TRANSIENT_ERROR. Neither is
// returned as an error: callers inspect the returned status. A request whose
// idempotency key was already processed returns the stored transaction
// untouched.
func (s *service) Process(ctx context.Context, req Request) (*models.Transaction, error) {
	b, ok := s.behaviors[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, req.Type)
	}

	tx := req.toModel()
	if err := s.transactions.Insert(ctx, tx); err != nil {
		if errors.Is(err, repositories.ErrDuplicateIdempotencyKey) {
			return s.transactions.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		return nil, err
	}

	unlock := s.locks.lock(tx.OriginatorWalletID + "/" + string(tx.OriginatorSubwalletType))
	defer unlock()

	if err := b.validate(ctx, tx); err != nil {
		if IsValidationError(err) {
			log.Warn().Err(err).
				Str("transaction_id", tx.ID).
				Str("type", string(tx.Type)).
				Msg("transaction validation failed")
			return s.transactions.UpdateStatus(ctx, tx.ID, models.StatusFailed, err.Error(), time.Now().UTC())
		}
		log.Error().Err(err).Str("transaction_id", tx.ID).Msg("transaction validation errored")
		return s.markTransient(ctx, tx, "")
	}

	updated, err := b.execute(ctx, tx)
	if err != nil {
		if partner.IsPartnerError(err) {
			log.Error().Err(err).Str("transaction_id", tx.ID).Msg("partner call failed")
			return s.markTransient(ctx, tx, err.Error())
		}
		log.Error().Err(err).Str("transaction_id", tx.ID).Msg("transaction execution failed")
		return s.markTransient(ctx, tx, "")
	}
	return updated, nil
}

// ProcessAll processes the requests sequentially, stopping only on errors
// that could not be recorded on a transaction.
func (s *service) ProcessAll(ctx context.Context, reqs []Request) error {
	for _, req := range reqs {
		if _, err := s.Process(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Reverse posts the mirror-image entries undoing the transaction's
// postings. It is idempotent: once a reversal timestamp is recorded, later
// calls are no-ops.
func (s *service) Reverse(ctx context.Context, tx *models.Transaction) error {
	if tx.ReversedAt != nil {
		return nil
	}
	stored, err := s.transactions.GetByID(ctx, tx.ID)
	if err != nil {
		return err
	}
	if stored.ReversedAt != nil {
		tx.ReversedAt = stored.ReversedAt
		return nil
	}

	b, ok := s.behaviors[tx.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, tx.Type)
	}

	postedAt, err := s.ledger.PostJournalEntries(ctx, b.reversalEntries(tx))
	if err != nil {
		return err
	}
	if err := s.transactions.MarkReversed(ctx, tx.ID, postedAt); err != nil {
		return err
	}
	tx.ReversedAt = &postedAt
	return nil
}

// ReverseAndFailBatch unwinds a partially completed multi-leg batch. Legs
// that posted entries (PROCESSING or COMPLETED) are reversed; legs that
// failed before posting have nothing to undo. All legs are then marked
// FAILED; a leg whose status cannot legally move there is logged and left as
// is rather than aborting the rest of the batch.
func (s *service) ReverseAndFailBatch(ctx context.Context, batchID, reason string) error {
	txs, err := s.transactions.Find(ctx, repositories.TransactionFilter{BatchID: batchID})
	if err != nil {
		return err
	}

	for _, tx := range txs {
		if tx.Status == models.StatusProcessing || tx.Status == models.StatusCompleted {
			if err := s.Reverse(ctx, tx); err != nil {
				return err
			}
		}

		if _, err := s.transactions.UpdateStatus(ctx, tx.ID, models.StatusFailed, reason, time.Now().UTC()); err != nil {
			var transition *repositories.StatusTransitionError
			if errors.As(err, &transition) {
				log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("batch leg not movable to FAILED")
				continue
			}
			return err
		}
	}
	return nil
}

// RetryBatch re-drives the batch's TRANSIENT_ERROR legs through partner and
// ledger posting, up to maxAttempts each. Business rules are not
// re-validated: the funds backing these legs were already held. Only
// partner-backed types are retryable this way; anything else needs manual
// reconciliation.
func (s *service) RetryBatch(ctx context.Context, batchID string, maxAttempts int) error {
	txs, err := s.transactions.Find(ctx, repositories.TransactionFilter{
		BatchID: batchID,
		Status:  models.StatusTransientError,
	})
	if err != nil {
		return err
	}

	for _, tx := range txs {
		if tx.Type != models.TransactionTypeTransfer && tx.Type != models.TransactionTypeTransferFromHold {
			log.Warn().Str("transaction_id", tx.ID).Str("type", string(tx.Type)).
				Msg("transient transaction not retryable, needs reconciliation")
			continue
		}

		b := s.behaviors[tx.Type]
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			updated, err := b.execute(ctx, tx)
			if err == nil {
				*tx = *updated
				break
			}
			log.Warn().Err(err).
				Str("transaction_id", tx.ID).
				Int("attempt", attempt).
				Msg("batch retry attempt failed")
		}
	}
	return nil
}

func (s *service) markTransient(ctx context.Context, tx *models.Transaction, reason string) (*models.Transaction, error) {
	return s.transactions.UpdateStatus(ctx, tx.ID, models.StatusTransientError, reason, time.Now().UTC())
}
