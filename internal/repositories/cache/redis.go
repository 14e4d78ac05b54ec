// Package cache is a Redis cache-aside layer over the wallet repository.
// Wallets are immutable after creation, so cached entries never need
// invalidation and a long TTL is safe.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const walletTTL = 24 * time.Hour

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// WalletCache decorates a WalletRepository with Redis lookups on GetByID.
// Find is not cached; filter results depend on the whole wallet set.
type WalletCache struct {
	client *redis.Client
	next   repositories.WalletRepository
}

func NewWalletCache(client *redis.Client, next repositories.WalletRepository) *WalletCache {
	if client == nil {
		panic("redis client is required")
	}
	if next == nil {
		panic("wallet repository is required")
	}
	return &WalletCache{client: client, next: next}
}

func (c *WalletCache) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := c.next.Create(ctx, wallet); err != nil {
		return err
	}
	c.set(ctx, wallet)
	return nil
}

func (c *WalletCache) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	if wallet, ok := c.get(ctx, id); ok {
		return wallet, nil
	}

	wallet, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, wallet)
	return wallet, nil
}

func (c *WalletCache) Find(ctx context.Context, filter repositories.WalletFilter) ([]*models.Wallet, error) {
	return c.next.Find(ctx, filter)
}

// get returns the cached wallet if present. Cache errors degrade to a miss;
// the store stays the source of truth.
func (c *WalletCache) get(ctx context.Context, id string) (*models.Wallet, bool) {
	data, err := c.client.Get(ctx, walletKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("wallet cache read failed")
		}
		return nil, false
	}

	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		log.Warn().Err(err).Str("wallet_id", id).Msg("wallet cache entry corrupt")
		return nil, false
	}
	return &wallet, true
}

func (c *WalletCache) set(ctx context.Context, wallet *models.Wallet) {
	data, err := json.Marshal(wallet)
	if err != nil {
		log.Warn().Err(err).Str("wallet_id", wallet.ID).Msg("wallet cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, walletKey(wallet.ID), data, walletTTL).Err(); err != nil {
		log.Warn().Err(err).Str("wallet_id", wallet.ID).Msg("wallet cache write failed")
	}
}

func walletKey(id string) string {
	return fmt.Sprintf("wallet:%s", id)
}
