package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items within the current tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its number within the current tenant
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindPendingCart finds the tenant's open pending order, if any
	FindPendingCart(ctx context.Context) (*Order, error)

	// FindAll lists orders of the current tenant
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)

	// NextOrderNumber allocates the next order number for the tenant. The
	// allocation serializes against concurrent callers for the same tenant
	// and must run inside a transaction. On derivation failure the sequence
	// falls back to 1 rather than leaving the number unset.
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock updates an order with optimistic concurrency control
	SaveWithLock(ctx context.Context, order *Order) error
}
