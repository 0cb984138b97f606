package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Repository defines the interface for inventory persistence. All reads run
// under the ambient tenant scope; the ForUpdate variants take row locks and
// must be called inside a transaction.
type Repository interface {
	// FindByID finds an inventory row by ID within the current tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Inventory, error)

	// FindByProductAndLocation finds the row for a product at a location
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*Inventory, error)

	// FindByProductAndLocationForUpdate locks and returns the row for a
	// product at a location
	FindByProductAndLocationForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*Inventory, error)

	// GetOrCreateForUpdate locks and returns the row for a product at a
	// location, creating an empty one if none exists
	GetOrCreateForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*Inventory, error)

	// FindFirstByProductForUpdate locks and returns a tenant's oldest
	// inventory row holding the product. The tenant is explicit because
	// settlement reaches into the supplier's rows from a system context.
	FindFirstByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*Inventory, error)

	// FindAll lists inventory rows of the current tenant
	FindAll(ctx context.Context, filter shared.Filter) ([]Inventory, int64, error)

	// FindBelowThreshold lists rows at or below their reorder threshold
	FindBelowThreshold(ctx context.Context) ([]Inventory, error)

	// Save creates or updates an inventory row
	Save(ctx context.Context, inv *Inventory) error

	// SaveWithLock updates an inventory row with optimistic concurrency
	// control, failing with a conflict error when the stored version moved
	SaveWithLock(ctx context.Context, inv *Inventory) error
}

// MovementRepository defines the interface for the append-only movement ledger
type MovementRepository interface {
	// Append persists new movements. Movements are immutable once written.
	Append(ctx context.Context, movements ...*Movement) error

	// FindByInventory lists movements of one inventory row, oldest first
	FindByInventory(ctx context.Context, inventoryID uuid.UUID) ([]Movement, error)

	// FindByReference lists movements recorded under a reference such as an
	// order number
	FindByReference(ctx context.Context, reference string) ([]Movement, error)

	// FindAll lists movements of the current tenant
	FindAll(ctx context.Context, filter shared.Filter) ([]Movement, int64, error)
}
