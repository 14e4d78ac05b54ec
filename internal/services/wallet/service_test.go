package wallet

import (
	"context"
	"testing"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/repositories/memory"
	"finch/internal/services/investment"
	"finch/internal/services/ledger"
	"finch/internal/services/transaction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPartner struct{}

func (okPartner) ExecuteInternalTransfer(context.Context, *models.Transaction) error { return nil }

type fixture struct {
	wallets      *memory.WalletRepository
	transactions *memory.TransactionRepository
	ledgerRepo   *memory.LedgerRepository
	policies     *memory.PolicyRepository
	ledgerSvc    ledger.Service
	processor    transaction.Service
	allocator    investment.Service
	svc          Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		wallets:      memory.NewWalletRepository(),
		transactions: memory.NewTransactionRepository(),
		ledgerRepo:   memory.NewLedgerRepository(),
		policies:     memory.NewPolicyRepository(),
	}
	f.ledgerSvc = ledger.NewService(f.ledgerRepo)
	f.processor = transaction.NewService(f.transactions, f.wallets, f.ledgerSvc, okPartner{})
	f.allocator = investment.NewService(f.transactions, f.wallets, f.policies, f.processor)
	f.svc = NewService(f.wallets, f.policies, f.ledgerSvc, f.processor, f.allocator)
	return f
}

func (f *fixture) createPolicy(t *testing.T) *models.InvestmentPolicy {
	t.Helper()
	policy, err := f.policies.Insert(context.Background(), models.AllocationStrategy{
		models.SubwalletStock:      decimal.NewFromFloat(0.4),
		models.SubwalletBonds:      decimal.NewFromFloat(0.1),
		models.SubwalletRealEstate: decimal.NewFromFloat(0.1),
		models.SubwalletCryptocurrency: decimal.NewFromFloat(0.4),
	})
	require.NoError(t, err)
	return policy
}

func (f *fixture) deposit(t *testing.T, walletID string, amount int64) {
	t.Helper()
	tx, err := f.processor.Process(context.Background(), transaction.Request{
		Type:                    models.TransactionTypeDeposit,
		Amount:                  decimal.NewFromInt(amount),
		IdempotencyKey:          uuid.NewString(),
		OriginatorWalletID:      walletID,
		OriginatorSubwalletType: models.SubwalletRealMoney,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, tx.Status)
}

func TestCreateWallet(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)

	t.Run("unknown policy is rejected", func(t *testing.T) {
		_, err := f.svc.CreateWallet(context.Background(), "cust-1", models.WalletTypeInvestment, "missing")
		assert.ErrorIs(t, err, repositories.ErrPolicyNotFound)
	})

	t.Run("creates and resolves", func(t *testing.T) {
		created, err := f.svc.CreateWallet(context.Background(), "cust-1", models.WalletTypeInvestment, policy.ID)
		require.NoError(t, err)

		found, err := f.svc.GetWallet(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "cust-1", found.CustomerID)
	})
}

func TestAvailableBalance(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	w, err := f.svc.CreateWallet(context.Background(), "cust-1", models.WalletTypeRealMoney, policy.ID)
	require.NoError(t, err)
	f.deposit(t, w.ID, 80)

	balance, err := f.svc.AvailableBalance(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(80)))
}

func TestInvest(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	w, err := f.svc.CreateWallet(context.Background(), "cust-1", models.WalletTypeRealMoney, policy.ID)
	require.NoError(t, err)
	f.deposit(t, w.ID, 100)

	t.Run("holds the amount", func(t *testing.T) {
		err := f.svc.Invest(context.Background(), InvestmentRequest{
			CustomerID:     "cust-1",
			Amount:         decimal.NewFromInt(60),
			IdempotencyKey: "invest-1",
		})
		require.NoError(t, err)

		hold, err := f.transactions.GetByIdempotencyKey(context.Background(), "invest-1")
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeHold, hold.Type)
		assert.Equal(t, models.StatusProcessing, hold.Status)

		balance, err := f.svc.AvailableBalance(context.Background(), w.ID)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(40)))
	})

	t.Run("insufficient funds fail the intent", func(t *testing.T) {
		err := f.svc.Invest(context.Background(), InvestmentRequest{
			CustomerID:     "cust-1",
			Amount:         decimal.NewFromInt(500),
			IdempotencyKey: "invest-2",
		})
		assert.ErrorIs(t, err, ErrInvestmentFailed)
	})

	t.Run("customer without a real money wallet", func(t *testing.T) {
		err := f.svc.Invest(context.Background(), InvestmentRequest{
			CustomerID:     "cust-2",
			Amount:         decimal.NewFromInt(10),
			IdempotencyKey: "invest-3",
		})
		assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
	})
}

func TestLiquidate(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	realMoney, err := f.svc.CreateWallet(context.Background(), "cust-1", models.WalletTypeRealMoney, policy.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateWallet(context.Background(), "cust-1", models.WalletTypeInvestment, policy.ID)
	require.NoError(t, err)

	// Fund and invest so the investment wallet carries positions.
	f.deposit(t, realMoney.ID, 100)
	require.NoError(t, f.svc.Invest(context.Background(), InvestmentRequest{
		CustomerID:     "cust-1",
		Amount:         decimal.NewFromInt(100),
		IdempotencyKey: "invest-1",
	}))
	require.NoError(t, f.allocator.BuyFunds(context.Background()))

	t.Run("places holds per policy", func(t *testing.T) {
		err := f.svc.Liquidate(context.Background(), LiquidationRequest{
			CustomerID:     "cust-1",
			Amount:         decimal.NewFromInt(50),
			IdempotencyKey: "liq-1",
		})
		require.NoError(t, err)

		legs, err := f.transactions.Find(context.Background(), repositories.TransactionFilter{BatchID: "liq-1"})
		require.NoError(t, err)
		require.Len(t, legs, 4)
		for _, leg := range legs {
			assert.Equal(t, models.TransactionTypeHold, leg.Type)
			assert.Equal(t, models.StatusProcessing, leg.Status)
		}
	})

	t.Run("over-liquidation unwinds the batch", func(t *testing.T) {
		err := f.svc.Liquidate(context.Background(), LiquidationRequest{
			CustomerID:     "cust-1",
			Amount:         decimal.NewFromInt(500),
			IdempotencyKey: "liq-2",
		})
		require.ErrorIs(t, err, ErrLiquidationFailed)

		legs, err := f.transactions.Find(context.Background(), repositories.TransactionFilter{BatchID: "liq-2"})
		require.NoError(t, err)
		require.NotEmpty(t, legs)
		for _, leg := range legs {
			assert.Equal(t, models.StatusFailed, leg.Status)
		}
	})
}
