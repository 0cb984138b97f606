package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// All queries run under the ambient tenant scope.
type ProductRepository interface {
	// FindByID finds a product by ID within the current tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by SKU within the current tenant
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs finds products by their IDs within the current tenant
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// ExistsBySKU checks whether a SKU is taken within the current tenant
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by ID within the current tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindAll lists locations of the current tenant
	FindAll(ctx context.Context, filter shared.Filter) ([]Location, error)

	// FindFirstByTenant finds the tenant's oldest location by creation time.
	// Returns shared.ErrNotFound when the tenant has no locations.
	FindFirstByTenant(ctx context.Context, tenantID uuid.UUID) (*Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error
}
