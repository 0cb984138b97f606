package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stocksync/backend/internal/infrastructure/config"
)

// RedisProductCache implements ProductCache on Redis. Suitable for
// multi-instance deployments where the cache must be shared.
type RedisProductCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisProductCache creates a new Redis-backed product cache and verifies
// the connection.
func NewRedisProductCache(cfg config.RedisConfig) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProductCache{
		client:    client,
		keyPrefix: "cache:",
	}, nil
}

// NewRedisProductCacheWithClient creates a cache sharing an existing client
func NewRedisProductCacheWithClient(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{
		client:    client,
		keyPrefix: "cache:",
	}
}

// Get returns the cached payload for a product
func (c *RedisProductCache) Get(ctx context.Context, tenantID, productID uuid.UUID) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.keyPrefix+productKey(tenantID, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores a payload with a TTL
func (c *RedisProductCache) Set(ctx context.Context, tenantID, productID uuid.UUID, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.keyPrefix+productKey(tenantID, productID), payload, ttl).Err()
}

// Invalidate removes a product from the cache
func (c *RedisProductCache) Invalidate(ctx context.Context, tenantID, productID uuid.UUID) error {
	return c.client.Del(ctx, c.keyPrefix+productKey(tenantID, productID)).Err()
}

// Close closes the Redis client
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

var _ ProductCache = (*RedisProductCache)(nil)
