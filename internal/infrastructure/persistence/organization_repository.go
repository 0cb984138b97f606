package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements identity.OrganizationRepository using
// GORM. Organizations are the tenants themselves, so the table carries no
// tenant_id column and the scoping callbacks leave it alone.
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &org, nil
}

// FindByName finds an organization by its unique name
func (r *GormOrganizationRepository) FindByName(ctx context.Context, name string) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&org).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &org, nil
}

// FindByActivationToken finds an organization by its activation token
func (r *GormOrganizationRepository) FindByActivationToken(ctx context.Context, token uuid.UUID) (*identity.Organization, error) {
	var org identity.Organization
	if err := r.db.WithContext(ctx).Where("activation_token = ?", token).First(&org).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &org, nil
}

// FindAll lists organizations matching the filter
func (r *GormOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Organization, error) {
	var orgs []identity.Organization
	query := r.db.WithContext(ctx).Model(&identity.Organization{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "type", "active":
			query = query.Where(key+" = ?", value)
		}
	}
	if err := applyPagination(query, filter).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// ExistsByName checks whether an organization name is already taken
func (r *GormOrganizationRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Organization{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

var _ identity.OrganizationRepository = (*GormOrganizationRepository)(nil)
