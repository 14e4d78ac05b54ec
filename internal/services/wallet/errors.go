package wallet

import "errors"

// Intent-level failures returned to the API caller. The underlying
// transaction records carry the per-leg detail.
var (
	ErrInvestmentFailed  = errors.New("investment failed")
	ErrLiquidationFailed = errors.New("liquidation failed")
)
