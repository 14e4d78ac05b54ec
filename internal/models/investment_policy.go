package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AllocationStrategy maps a subwallet type to the fraction of an investment
// amount it receives. Fractions are decimals in [0, 1] and must sum to 1.
type AllocationStrategy map[SubwalletType]decimal.Decimal

func (s AllocationStrategy) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *AllocationStrategy) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("allocation strategy: unsupported scan type")
	}
	return json.Unmarshal(bytes, s)
}

// Sum adds up all allocation fractions.
func (s AllocationStrategy) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, pct := range s {
		total = total.Add(pct)
	}
	return total
}

// InvestmentPolicy is immutable once created; there is no versioning.
type InvestmentPolicy struct {
	ID                 string             `gorm:"primarykey;type:uuid"`
	AllocationStrategy AllocationStrategy `gorm:"type:jsonb;not null"`
	InsertedAt         time.Time          `gorm:"not null"`
}
