package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// BuyerRepository defines the interface for buyer persistence
type BuyerRepository interface {
	// FindByID finds a buyer by ID within the current tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Buyer, error)

	// FindByBuyerOrg finds the buyer record for a purchasing organization
	FindByBuyerOrg(ctx context.Context, buyerOrgID uuid.UUID) (*Buyer, error)

	// FindAll lists buyers of the current tenant
	FindAll(ctx context.Context, filter shared.Filter) ([]Buyer, error)

	// NextBuyerCode allocates the next sequential buyer code for the tenant
	NextBuyerCode(ctx context.Context) (string, error)

	// Save creates or updates a buyer
	Save(ctx context.Context, buyer *Buyer) error
}
