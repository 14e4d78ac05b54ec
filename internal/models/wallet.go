package models

import "time"

type WalletType string

const (
	WalletTypeRealMoney     WalletType = "REAL_MONEY"
	WalletTypeInvestment    WalletType = "INVESTMENT"
	WalletTypeEmergencyFund WalletType = "EMERGENCY_FUND"
)

// Wallet is immutable after creation. Balances are not stored here; they are
// derived from the ledger. PolicyID references the investment allocation
// policy applied when the customer invests or liquidates.
type Wallet struct {
	ID         string     `gorm:"primarykey;type:uuid"`
	CustomerID string     `gorm:"not null;index"`
	Type       WalletType `gorm:"not null"`
	PolicyID   string     `gorm:"type:uuid"`
	InsertedAt time.Time  `gorm:"not null"`
}

// AvailableBalanceQueries returns the fixed (subwallet, balance) pairs that
// make up the available balance for a wallet type. The mapping is a pure
// function of the type: a real-money wallet spends from its REAL_MONEY
// bucket, an investment wallet across the four investable buckets.
func (t WalletType) AvailableBalanceQueries() []BalanceQuery {
	switch t {
	case WalletTypeRealMoney:
		return []BalanceQuery{{SubwalletType: SubwalletRealMoney, BalanceType: BalanceAvailable}}
	case WalletTypeEmergencyFund:
		return []BalanceQuery{{SubwalletType: SubwalletEmergencyFund, BalanceType: BalanceAvailable}}
	case WalletTypeInvestment:
		queries := make([]BalanceQuery, 0, len(InvestableSubwallets))
		for _, st := range InvestableSubwallets {
			queries = append(queries, BalanceQuery{SubwalletType: st, BalanceType: BalanceAvailable})
		}
		return queries
	default:
		return nil
	}
}
