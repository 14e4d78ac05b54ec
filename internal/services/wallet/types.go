package wallet

import "github.com/shopspring/decimal"

// InvestmentRequest asks to earmark part of the customer's real money for
// investment. The amount is held; a background driver later moves it into
// the investment wallet per the wallet's policy.
type InvestmentRequest struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required"`
}

// LiquidationRequest asks to sell down the customer's investments. Holds are
// placed across the investment wallet's subwallets per policy; a background
// driver later moves the held funds back to real money.
type LiquidationRequest struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required"`
}
