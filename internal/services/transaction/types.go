package transaction

import (
	"finch/internal/models"

	"github.com/shopspring/decimal"
)

// Request describes one transaction to process. BatchID ties the legs of a
// multi-leg intent together; the idempotency key must be unique per logical
// submission. Beneficiary fields are required for TRANSFER and
// TRANSFER_FROM_HOLD and must be empty otherwise.
type Request struct {
	Type                     models.TransactionType `json:"type" validate:"required"`
	Amount                   decimal.Decimal        `json:"amount" validate:"required"`
	IdempotencyKey           string                 `json:"idempotency_key" validate:"required"`
	BatchID                  string                 `json:"batch_id,omitempty"`
	OriginatorWalletID       string                 `json:"originator_wallet_id" validate:"required"`
	OriginatorSubwalletType  models.SubwalletType   `json:"originator_subwallet_type" validate:"required"`
	BeneficiaryWalletID      string                 `json:"beneficiary_wallet_id,omitempty"`
	BeneficiarySubwalletType models.SubwalletType   `json:"beneficiary_subwallet_type,omitempty"`
	Metadata                 models.JSON            `json:"metadata,omitempty"`
}

func (r Request) toModel() *models.Transaction {
	tx := &models.Transaction{
		Type:                    r.Type,
		Amount:                  r.Amount,
		IdempotencyKey:          r.IdempotencyKey,
		OriginatorWalletID:      r.OriginatorWalletID,
		OriginatorSubwalletType: r.OriginatorSubwalletType,
		Status:                  models.StatusProcessing,
		Metadata:                r.Metadata,
	}
	if r.BatchID != "" {
		batchID := r.BatchID
		tx.BatchID = &batchID
	}
	if r.BeneficiaryWalletID != "" {
		walletID := r.BeneficiaryWalletID
		tx.BeneficiaryWalletID = &walletID
	}
	if r.BeneficiarySubwalletType != "" {
		subwallet := r.BeneficiarySubwalletType
		tx.BeneficiarySubwalletType = &subwallet
	}
	return tx
}
