package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements inventory.Repository using GORM.
// Tenant filtering is applied by the tenant callbacks registered on the
// connection; the repository never filters by tenant manually.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds an inventory row by ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

// FindByProductAndLocation finds the row for a product at a location
func (r *GormInventoryRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&inv).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

// FindByProductAndLocationForUpdate locks and returns the row for a product
// at a location. Must run inside a transaction.
func (r *GormInventoryRepository) FindByProductAndLocationForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&inv).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

// FindFirstByProductForUpdate locks and returns a tenant's oldest inventory
// row holding the product
func (r *GormInventoryRepository) FindFirstByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at ASC").
		First(&inv).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &inv, nil
}

// GetOrCreateForUpdate locks and returns the row for a product at a
// location, creating an empty one when missing. The insert uses ON CONFLICT
// DO NOTHING so two racing creators converge on the same row.
func (r *GormInventoryRepository) GetOrCreateForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Inventory, error) {
	inv, err := r.FindByProductAndLocationForUpdate(ctx, productID, locationID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	inv, err = inventory.NewInventory(tenantID, productID, locationID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "product_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(inv).Error; err != nil {
		return nil, err
	}

	return r.FindByProductAndLocationForUpdate(ctx, productID, locationID)
}

// FindAll lists inventory rows of the current tenant
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Inventory, int64, error) {
	var rows []inventory.Inventory
	var count int64

	base := r.db.WithContext(ctx).Model(&inventory.Inventory{})
	base = applyInventoryFilters(base, filter)

	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := applyPagination(base, filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// FindBelowThreshold lists rows at or below their reorder threshold
func (r *GormInventoryRepository) FindBelowThreshold(ctx context.Context) ([]inventory.Inventory, error) {
	var rows []inventory.Inventory
	if err := r.db.WithContext(ctx).
		Where("reorder_threshold > 0 AND quantity <= reorder_threshold").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates an inventory row
func (r *GormInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// SaveWithLock updates an inventory row with optimistic locking
func (r *GormInventoryRepository) SaveWithLock(ctx context.Context, inv *inventory.Inventory) error {
	result := r.db.WithContext(ctx).
		Model(inv).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(map[string]interface{}{
			"quantity":          inv.Quantity,
			"reorder_threshold": inv.ReorderThreshold,
			"max_stock_level":   inv.MaxStockLevel,
			"version":           inv.Version,
			"updated_at":        inv.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ inventory.Repository = (*GormInventoryRepository)(nil)

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append persists new movements. There is no update path; ledger rows are
// immutable once written.
func (r *GormMovementRepository) Append(ctx context.Context, movements ...*inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByInventory lists movements of one inventory row, oldest first
func (r *GormMovementRepository) FindByInventory(ctx context.Context, inventoryID uuid.UUID) ([]inventory.Movement, error) {
	var rows []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByReference lists movements recorded under a reference
func (r *GormMovementRepository) FindByReference(ctx context.Context, reference string) ([]inventory.Movement, error) {
	var rows []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAll lists movements of the current tenant
func (r *GormMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Movement, int64, error) {
	var rows []inventory.Movement
	var count int64

	base := r.db.WithContext(ctx).Model(&inventory.Movement{})
	for key, value := range filter.Filters {
		switch key {
		case "product_id", "location_id", "inventory_id", "type":
			base = base.Where(key+" = ?", value)
		}
	}

	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := applyPagination(base, filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)

func applyInventoryFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id", "location_id":
			query = query.Where(key+" = ?", value)
		case "below_threshold":
			if value == true {
				query = query.Where("reorder_threshold > 0 AND quantity <= reorder_threshold")
			}
		}
	}
	return query
}

// applyPagination applies pagination and ordering from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}
