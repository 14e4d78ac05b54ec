// Package main wires the ledger core: Postgres and Redis connections, the
// service graph, the HTTP server and the periodic buy/sell fund drivers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finch/internal/config"
	"finch/internal/handlers"
	"finch/internal/repositories"
	"finch/internal/repositories/cache"
	"finch/internal/services/investment"
	"finch/internal/services/ledger"
	"finch/internal/services/partner"
	"finch/internal/services/transaction"
	"finch/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !config.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := repositories.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get database instance")
	}
	defer sqlDB.Close()
	log.Info().Msg("connected to postgres")

	rdb := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	defer rdb.Close()

	// Repositories. Wallet lookups go through the Redis cache.
	walletRepo := cache.NewWalletCache(rdb, repositories.NewWalletRepository(db))
	transactionRepo := repositories.NewTransactionRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	policyRepo := repositories.NewPolicyRepository(db)

	// Services.
	ledgerSvc := ledger.NewService(ledgerRepo)
	partnerClient := partner.NewStripeClient(
		config.GetEnv("STRIPE_SECRET_KEY", ""),
		config.GetEnv("STRIPE_DEFAULT_ACCOUNT", ""),
		config.GetEnv("STRIPE_CURRENCY", "usd"),
	)
	processor := transaction.NewService(transactionRepo, walletRepo, ledgerSvc, partnerClient)
	allocator := investment.NewService(transactionRepo, walletRepo, policyRepo, processor)
	walletSvc := wallet.NewService(walletRepo, policyRepo, ledgerSvc, processor, allocator)

	// Background drivers moving held funds into and out of investments.
	driverCtx, stopDrivers := context.WithCancel(context.Background())
	defer stopDrivers()
	go runFundDrivers(driverCtx, allocator)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT_PER_MINUTE", 120),
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	}))

	handlers.SetupRoutes(app, db, rdb,
		handlers.NewWalletHandler(walletSvc),
		handlers.NewTransactionHandler(processor, transactionRepo),
		handlers.NewPolicyHandler(policyRepo),
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		stopDrivers()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// runFundDrivers runs the buy and sell fund reconciliation loops until ctx
// is cancelled.
func runFundDrivers(ctx context.Context, allocator investment.Service) {
	interval := time.Duration(config.GetIntEnv("FUND_DRIVER_INTERVAL_SECONDS", 30)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := allocator.BuyFunds(ctx); err != nil {
				log.Error().Err(err).Msg("buy funds driver failed")
			}
			if err := allocator.SellFunds(ctx); err != nil {
				log.Error().Err(err).Msg("sell funds driver failed")
			}
		}
	}
}
