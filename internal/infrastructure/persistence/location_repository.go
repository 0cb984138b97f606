package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLocationRepository implements catalog.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	var location catalog.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &location, nil
}

// FindAll lists locations of the current tenant
func (r *GormLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Location, error) {
	var locations []catalog.Location
	query := r.db.WithContext(ctx).Model(&catalog.Location{})
	if err := applyPagination(query, filter).Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindFirstByTenant finds the tenant's oldest location. The explicit tenant
// filter lets settlement resolve the buyer's destination from a system
// context that bypasses ambient scoping.
func (r *GormLocationRepository) FindFirstByTenant(ctx context.Context, tenantID uuid.UUID) (*catalog.Location, error) {
	var location catalog.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		First(&location).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &location, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *catalog.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

var _ catalog.LocationRepository = (*GormLocationRepository)(nil)
