package partner

import (
	"context"

	"finch/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// StripeClient executes partner movements as Stripe transfers. The
// transaction's idempotency key is forwarded so a retried call never moves
// funds twice.
var _ Client = (*StripeClient)(nil)

type StripeClient struct {
	api *client.API
	// destination account used when the transaction metadata carries no
	// counterparty account
	defaultAccount string
	currency       string
}

func NewStripeClient(apiKey, defaultAccount, currency string) *StripeClient {
	api := &client.API{}
	api.Init(apiKey, nil)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeClient{
		api:            api,
		defaultAccount: defaultAccount,
		currency:       currency,
	}
}

func (c *StripeClient) ExecuteInternalTransfer(ctx context.Context, tx *models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "transfer", Err: err}
	}

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(tx.Amount.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency:    stripe.String(c.currency),
		Destination: stripe.String(c.destinationFor(tx)),
	}
	if tx.BatchID != nil {
		params.TransferGroup = stripe.String(*tx.BatchID)
	}
	params.Context = ctx
	params.SetIdempotencyKey(tx.IdempotencyKey)

	if _, err := c.api.Transfers.New(params); err != nil {
		return &Error{Op: "transfer", Err: err}
	}
	return nil
}

func (c *StripeClient) destinationFor(tx *models.Transaction) string {
	if acct, ok := tx.Metadata["counterparty_account"].(string); ok && acct != "" {
		return acct
	}
	return c.defaultAccount
}
