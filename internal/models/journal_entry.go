package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubwalletType names a bucket within a wallet that journal entries target.
type SubwalletType string

const (
	SubwalletRealMoney      SubwalletType = "REAL_MONEY"
	SubwalletInvestment     SubwalletType = "INVESTMENT"
	SubwalletEmergencyFund  SubwalletType = "EMERGENCY_FUND"
	SubwalletStock          SubwalletType = "STOCK"
	SubwalletBonds          SubwalletType = "BONDS"
	SubwalletRealEstate     SubwalletType = "REAL_ESTATE"
	SubwalletCryptocurrency SubwalletType = "CRYPTOCURRENCY"
)

// InvestableSubwallets are the subwallet types an investment policy can
// allocate into.
var InvestableSubwallets = []SubwalletType{
	SubwalletStock,
	SubwalletBonds,
	SubwalletRealEstate,
	SubwalletCryptocurrency,
}

type BalanceType string

const (
	BalanceAvailable BalanceType = "AVAILABLE"
	BalanceHolding   BalanceType = "HOLDING"
	// BalanceInternal is the contra side of external money movement. It is
	// not customer visible and may go negative.
	BalanceInternal BalanceType = "INTERNAL"
)

// JournalEntry is an immutable ledger fact. A nil WalletID marks the house
// account side of an external movement. Entries are only ever appended,
// never mutated or deleted; balances are derived by summing them.
type JournalEntry struct {
	ID            string          `gorm:"primarykey;type:uuid"`
	WalletID      *string         `gorm:"type:uuid;index:idx_entries_wallet"`
	SubwalletType SubwalletType   `gorm:"not null;index:idx_entries_wallet"`
	BalanceType   BalanceType     `gorm:"not null;index:idx_entries_wallet"`
	Amount        decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	PostedAt      time.Time       `gorm:"not null;index"`
}

// JournalEntryDraft is an entry before posting; the ledger assigns id and
// posted-at on append.
type JournalEntryDraft struct {
	WalletID      *string
	SubwalletType SubwalletType
	BalanceType   BalanceType
	Amount        decimal.Decimal
}

// BalanceQuery selects the entries whose amounts make up one balance figure.
type BalanceQuery struct {
	SubwalletType SubwalletType
	BalanceType   BalanceType
}
