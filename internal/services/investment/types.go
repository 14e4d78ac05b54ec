package investment

import (
	"finch/internal/models"

	"github.com/shopspring/decimal"
)

// MovementRequest describes one customer intent to fan out across the
// allocation strategy of an investment policy. Type selects the leg shape:
// HOLD earmarks funds per investable subwallet, TRANSFER_FROM_HOLD moves
// earmarked funds into TargetWalletID. OriginatorSubwalletType and
// TargetWalletID are required for TRANSFER_FROM_HOLD only.
type MovementRequest struct {
	Amount                  decimal.Decimal
	IdempotencyKey          string
	WalletID                string
	TargetWalletID          string
	Policy                  *models.InvestmentPolicy
	Type                    models.TransactionType
	OriginatorSubwalletType models.SubwalletType
}
