// Package handlers is the HTTP surface of the ledger core: wallet intents
// for customers and transaction/batch operations for the back office.
package handlers

import (
	"finch/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes registers all endpoints on the app.
func SetupRoutes(
	app *fiber.App,
	db *gorm.DB,
	rdb *redis.Client,
	walletHandler *WalletHandler,
	transactionHandler *TransactionHandler,
	policyHandler *PolicyHandler,
) {
	app.Get("/health", HealthCheck(db, rdb))

	api := app.Group("/api", middleware.AuthMiddleware)

	wallets := api.Group("/wallets")
	wallets.Post("/", walletHandler.CreateWallet)
	wallets.Get("/:id", walletHandler.GetWallet)
	wallets.Get("/:id/balance", walletHandler.GetBalance)
	wallets.Post("/invest", walletHandler.Invest)
	wallets.Post("/liquidate", walletHandler.Liquidate)

	operator := api.Group("/", middleware.OperatorOnly)

	transactions := operator.Group("/transactions")
	transactions.Post("/", transactionHandler.ProcessTransaction)
	transactions.Get("/:id", transactionHandler.GetTransaction)

	batches := operator.Group("/batches")
	batches.Get("/:id", transactionHandler.GetBatch)
	batches.Post("/:id/retry", transactionHandler.RetryBatch)
	batches.Post("/:id/reverse", transactionHandler.ReverseBatch)

	policies := operator.Group("/policies")
	policies.Post("/", policyHandler.CreatePolicy)
	policies.Get("/:id", policyHandler.GetPolicy)
}
