package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletType_AvailableBalanceQueries(t *testing.T) {
	t.Run("real money wallet queries its own subwallet", func(t *testing.T) {
		queries := WalletTypeRealMoney.AvailableBalanceQueries()
		require.Len(t, queries, 1)
		assert.Equal(t, BalanceQuery{SubwalletType: SubwalletRealMoney, BalanceType: BalanceAvailable}, queries[0])
	})

	t.Run("emergency fund wallet queries its own subwallet", func(t *testing.T) {
		queries := WalletTypeEmergencyFund.AvailableBalanceQueries()
		require.Len(t, queries, 1)
		assert.Equal(t, BalanceQuery{SubwalletType: SubwalletEmergencyFund, BalanceType: BalanceAvailable}, queries[0])
	})

	t.Run("investment wallet spans all investable subwallets", func(t *testing.T) {
		queries := WalletTypeInvestment.AvailableBalanceQueries()
		require.Len(t, queries, len(InvestableSubwallets))
		for i, st := range InvestableSubwallets {
			assert.Equal(t, BalanceQuery{SubwalletType: st, BalanceType: BalanceAvailable}, queries[i])
		}
	})
}

func TestAllocationStrategy_Sum(t *testing.T) {
	strategy := AllocationStrategy{
		SubwalletStock:      decimal.NewFromFloat(0.4),
		SubwalletBonds:      decimal.NewFromFloat(0.1),
		SubwalletRealEstate: decimal.NewFromFloat(0.5),
	}
	assert.True(t, strategy.Sum().Equal(decimal.NewFromInt(1)))
}
