package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/partner"
	"github.com/stocksync/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBuyerRepository implements partner.BuyerRepository using GORM
type GormBuyerRepository struct {
	db *gorm.DB
}

// NewGormBuyerRepository creates a new GormBuyerRepository
func NewGormBuyerRepository(db *gorm.DB) *GormBuyerRepository {
	return &GormBuyerRepository{db: db}
}

// FindByID finds a buyer by ID
func (r *GormBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &buyer, nil
}

// FindByBuyerOrg finds the buyer record for a purchasing organization
func (r *GormBuyerRepository) FindByBuyerOrg(ctx context.Context, buyerOrgID uuid.UUID) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).Where("buyer_org_id = ?", buyerOrgID).First(&buyer).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &buyer, nil
}

// FindAll lists buyers of the current tenant
func (r *GormBuyerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Buyer, error) {
	var buyers []partner.Buyer
	query := r.db.WithContext(ctx).Model(&partner.Buyer{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if err := applyPagination(query, filter).Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

// NextBuyerCode allocates the next sequential buyer code for the tenant.
// Allocation locks the tenant's highest existing code row; concurrent
// allocations for the same supplier serialize there.
func (r *GormBuyerRepository) NextBuyerCode(ctx context.Context) (string, error) {
	var lastCode string
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&partner.Buyer{}).
		Select("code").
		Order("code DESC").
		Limit(1).
		Scan(&lastCode).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if lastCode != "" {
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(lastCode, "BUY"), "%d", &n); err == nil {
			seq = n + 1
		}
	}
	return partner.FormatBuyerCode(seq), nil
}

// Save creates or updates a buyer
func (r *GormBuyerRepository) Save(ctx context.Context, buyer *partner.Buyer) error {
	return r.db.WithContext(ctx).Save(buyer).Error
}

var _ partner.BuyerRepository = (*GormBuyerRepository)(nil)
