package investment

import (
	"context"
	"fmt"
	"testing"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/repositories/memory"
	"finch/internal/services/ledger"
	"finch/internal/services/partner"
	"finch/internal/services/transaction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPartner answers partner calls from a scripted queue; an empty queue
// means success.
type stubPartner struct {
	failures int
	calls    int
}

func (p *stubPartner) ExecuteInternalTransfer(context.Context, *models.Transaction) error {
	p.calls++
	if p.failures > 0 {
		p.failures--
		return &partner.Error{Op: "transfer", Err: fmt.Errorf("unavailable")}
	}
	return nil
}

type fixture struct {
	wallets      *memory.WalletRepository
	transactions *memory.TransactionRepository
	ledgerRepo   *memory.LedgerRepository
	policies     *memory.PolicyRepository
	partner      *stubPartner
	processor    transaction.Service
	svc          Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		wallets:      memory.NewWalletRepository(),
		transactions: memory.NewTransactionRepository(),
		ledgerRepo:   memory.NewLedgerRepository(),
		policies:     memory.NewPolicyRepository(),
		partner:      &stubPartner{},
	}
	f.processor = transaction.NewService(f.transactions, f.wallets, ledger.NewService(f.ledgerRepo), f.partner)
	f.svc = NewService(f.transactions, f.wallets, f.policies, f.processor)
	return f
}

func (f *fixture) createPolicy(t *testing.T) *models.InvestmentPolicy {
	t.Helper()
	policy, err := f.policies.Insert(context.Background(), models.AllocationStrategy{
		models.SubwalletRealEstate:     decimal.NewFromFloat(0.4),
		models.SubwalletCryptocurrency: decimal.NewFromFloat(0.1),
		models.SubwalletBonds:          decimal.NewFromFloat(0.1),
		models.SubwalletStock:          decimal.NewFromFloat(0.4),
	})
	require.NoError(t, err)
	return policy
}

func (f *fixture) createWallet(t *testing.T, customerID string, walletType models.WalletType, policyID string) *models.Wallet {
	t.Helper()
	w := &models.Wallet{ID: uuid.NewString(), CustomerID: customerID, Type: walletType, PolicyID: policyID}
	require.NoError(t, f.wallets.Create(context.Background(), w))
	return w
}

// fundAndHold deposits the amount into the real-money wallet and holds it,
// returning the open hold transaction.
func (f *fixture) fundAndHold(t *testing.T, walletID string, amount int64) *models.Transaction {
	t.Helper()
	ctx := context.Background()

	tx, err := f.processor.Process(ctx, transaction.Request{
		Type:                    models.TransactionTypeDeposit,
		Amount:                  decimal.NewFromInt(amount),
		IdempotencyKey:          uuid.NewString(),
		OriginatorWalletID:      walletID,
		OriginatorSubwalletType: models.SubwalletRealMoney,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, tx.Status)

	hold, err := f.processor.Process(ctx, transaction.Request{
		Type:                    models.TransactionTypeHold,
		Amount:                  decimal.NewFromInt(amount),
		IdempotencyKey:          uuid.NewString(),
		OriginatorWalletID:      walletID,
		OriginatorSubwalletType: models.SubwalletRealMoney,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusProcessing, hold.Status)
	return hold
}

func TestExecuteMovementWithPolicy_FanOut(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	origin := f.createWallet(t, "cust-1", models.WalletTypeRealMoney, policy.ID)
	target := f.createWallet(t, "cust-1", models.WalletTypeInvestment, policy.ID)
	f.fundAndHold(t, origin.ID, 100)

	err := f.svc.ExecuteMovementWithPolicy(context.Background(), MovementRequest{
		Amount:                  decimal.NewFromInt(100),
		IdempotencyKey:          "intent-1",
		WalletID:                origin.ID,
		TargetWalletID:          target.ID,
		Policy:                  policy,
		Type:                    models.TransactionTypeTransferFromHold,
		OriginatorSubwalletType: models.SubwalletRealMoney,
	})
	require.NoError(t, err)

	legs, err := f.transactions.Find(context.Background(), repositories.TransactionFilter{BatchID: "intent-1"})
	require.NoError(t, err)
	require.Len(t, legs, 4)

	wantAmounts := map[models.SubwalletType]decimal.Decimal{
		models.SubwalletRealEstate:     decimal.NewFromInt(40),
		models.SubwalletCryptocurrency: decimal.NewFromInt(10),
		models.SubwalletBonds:          decimal.NewFromInt(10),
		models.SubwalletStock:          decimal.NewFromInt(40),
	}
	for _, leg := range legs {
		require.NotNil(t, leg.BeneficiarySubwalletType)
		subwallet := *leg.BeneficiarySubwalletType
		assert.Equal(t, models.StatusCompleted, leg.Status)
		assert.Equal(t, fmt.Sprintf("intent-1_%s", subwallet), leg.IdempotencyKey)
		assert.True(t, leg.Amount.Equal(wantAmounts[subwallet]), "leg %s amount %s", subwallet, leg.Amount)
	}

	invested, err := f.ledgerRepo.SumBalance(context.Background(), target.ID, models.WalletTypeInvestment.AvailableBalanceQueries())
	require.NoError(t, err)
	assert.True(t, invested.Equal(decimal.NewFromInt(100)))
}

func TestExecuteMovementWithPolicy_ValidationFailureAbortsBatch(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	origin := f.createWallet(t, "cust-1", models.WalletTypeRealMoney, policy.ID)
	target := f.createWallet(t, "cust-1", models.WalletTypeInvestment, policy.ID)
	// Held funds cover only part of the intent, so some leg must fail its
	// holding balance check.
	f.fundAndHold(t, origin.ID, 50)

	err := f.svc.ExecuteMovementWithPolicy(context.Background(), MovementRequest{
		Amount:                  decimal.NewFromInt(100),
		IdempotencyKey:          "intent-1",
		WalletID:                origin.ID,
		TargetWalletID:          target.ID,
		Policy:                  policy,
		Type:                    models.TransactionTypeTransferFromHold,
		OriginatorSubwalletType: models.SubwalletRealMoney,
	})
	assert.ErrorIs(t, err, ErrBatchFailed)
}

func TestExecuteMovementWithPolicy_TransientLegDoesNotAbort(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	origin := f.createWallet(t, "cust-1", models.WalletTypeRealMoney, policy.ID)
	target := f.createWallet(t, "cust-1", models.WalletTypeInvestment, policy.ID)
	f.fundAndHold(t, origin.ID, 100)
	f.partner.failures = 1

	err := f.svc.ExecuteMovementWithPolicy(context.Background(), MovementRequest{
		Amount:                  decimal.NewFromInt(100),
		IdempotencyKey:          "intent-1",
		WalletID:                origin.ID,
		TargetWalletID:          target.ID,
		Policy:                  policy,
		Type:                    models.TransactionTypeTransferFromHold,
		OriginatorSubwalletType: models.SubwalletRealMoney,
	})
	require.NoError(t, err)

	legs, err := f.transactions.Find(context.Background(), repositories.TransactionFilter{BatchID: "intent-1"})
	require.NoError(t, err)
	require.Len(t, legs, 4, "transient legs must not stop the fan-out")

	transient, err := f.transactions.Find(context.Background(), repositories.TransactionFilter{
		BatchID: "intent-1",
		Status:  models.StatusTransientError,
	})
	require.NoError(t, err)
	assert.Len(t, transient, 1)
}

func TestExecuteMovementWithPolicy_RejectsOtherTypes(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)

	err := f.svc.ExecuteMovementWithPolicy(context.Background(), MovementRequest{
		Amount:         decimal.NewFromInt(10),
		IdempotencyKey: "intent-1",
		WalletID:       "wallet-1",
		Policy:         policy,
		Type:           models.TransactionTypeDeposit,
	})
	assert.ErrorIs(t, err, ErrMovementTypeNotAllowed)
}

func TestBuyFunds(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	origin := f.createWallet(t, "cust-1", models.WalletTypeRealMoney, policy.ID)
	target := f.createWallet(t, "cust-1", models.WalletTypeInvestment, policy.ID)
	hold := f.fundAndHold(t, origin.ID, 100)

	require.NoError(t, f.svc.BuyFunds(context.Background()))

	completedHold, err := f.transactions.GetByID(context.Background(), hold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completedHold.Status)

	invested, err := f.ledgerRepo.SumBalance(context.Background(), target.ID, models.WalletTypeInvestment.AvailableBalanceQueries())
	require.NoError(t, err)
	assert.True(t, invested.Equal(decimal.NewFromInt(100)))
}

func TestBuyFunds_TransientLegLeavesHoldOpen(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	origin := f.createWallet(t, "cust-1", models.WalletTypeRealMoney, policy.ID)
	f.createWallet(t, "cust-1", models.WalletTypeInvestment, policy.ID)
	hold := f.fundAndHold(t, origin.ID, 100)
	f.partner.failures = 1

	require.NoError(t, f.svc.BuyFunds(context.Background()))

	stored, err := f.transactions.GetByID(context.Background(), hold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, stored.Status, "hold stays open until all legs settle")
}

func TestSellFunds(t *testing.T) {
	f := newFixture(t)
	policy := f.createPolicy(t)
	realMoney := f.createWallet(t, "cust-1", models.WalletTypeRealMoney, policy.ID)
	investmentWallet := f.createWallet(t, "cust-1", models.WalletTypeInvestment, policy.ID)
	f.fundAndHold(t, realMoney.ID, 100)

	// Move the held funds into investments, then hold the stock position
	// for liquidation.
	require.NoError(t, f.svc.BuyFunds(context.Background()))

	stockHold, err := f.processor.Process(context.Background(), transaction.Request{
		Type:                    models.TransactionTypeHold,
		Amount:                  decimal.NewFromInt(40),
		IdempotencyKey:          "liquidate-stock",
		OriginatorWalletID:      investmentWallet.ID,
		OriginatorSubwalletType: models.SubwalletStock,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusProcessing, stockHold.Status)

	require.NoError(t, f.svc.SellFunds(context.Background()))

	settled, err := f.transactions.GetByID(context.Background(), stockHold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, settled.Status)

	cash, err := f.ledgerRepo.SumBalance(context.Background(), realMoney.ID, models.WalletTypeRealMoney.AvailableBalanceQueries())
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(40)))
}
