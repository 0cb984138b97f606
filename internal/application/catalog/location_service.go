package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// LocationService manages the tenant's stock locations
type LocationService struct {
	locationRepo catalog.LocationRepository
	logger       *zap.Logger
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo catalog.LocationRepository, log *zap.Logger) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		logger:       log,
	}
}

// Create adds a stock location. The tenant's oldest location doubles as the
// destination for purchased stock at order settlement.
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*LocationDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	location, err := catalog.NewLocation(tenantID, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	dto := toLocationDTO(location)
	return &dto, nil
}

// Get returns one location
func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toLocationDTO(location)
	return &dto, nil
}

// List lists locations of the current tenant
func (s *LocationService) List(ctx context.Context, filter shared.Filter) ([]LocationDTO, error) {
	locations, err := s.locationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]LocationDTO, 0, len(locations))
	for i := range locations {
		dtos = append(dtos, toLocationDTO(&locations[i]))
	}
	return dtos, nil
}
