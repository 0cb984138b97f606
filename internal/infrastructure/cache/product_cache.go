package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProductCache caches serialized product read models keyed by tenant and
// product ID. The cache is read-through: misses fall back to the database,
// and writes invalidate rather than update.
type ProductCache interface {
	// Get returns the cached payload for a product, or false on miss
	Get(ctx context.Context, tenantID, productID uuid.UUID) ([]byte, bool, error)

	// Set stores a payload with a TTL
	Set(ctx context.Context, tenantID, productID uuid.UUID, payload []byte, ttl time.Duration) error

	// Invalidate removes a product from the cache
	Invalidate(ctx context.Context, tenantID, productID uuid.UUID) error
}

// InMemoryProductCache is a process-local ProductCache for single-instance
// deployments and tests. Entries expire lazily on read.
type InMemoryProductCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewInMemoryProductCache creates a new InMemoryProductCache
func NewInMemoryProductCache() *InMemoryProductCache {
	return &InMemoryProductCache{
		entries: make(map[string]inMemoryEntry),
	}
}

// Get returns the cached payload for a product
func (c *InMemoryProductCache) Get(_ context.Context, tenantID, productID uuid.UUID) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[productKey(tenantID, productID)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores a payload with a TTL
func (c *InMemoryProductCache) Set(_ context.Context, tenantID, productID uuid.UUID, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[productKey(tenantID, productID)] = inMemoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Invalidate removes a product from the cache
func (c *InMemoryProductCache) Invalidate(_ context.Context, tenantID, productID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, productKey(tenantID, productID))
	c.mu.Unlock()
	return nil
}

func productKey(tenantID, productID uuid.UUID) string {
	return "product:" + tenantID.String() + ":" + productID.String()
}

var _ ProductCache = (*InMemoryProductCache)(nil)
