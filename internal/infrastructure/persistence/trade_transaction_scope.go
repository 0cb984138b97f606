package persistence

import (
	"context"

	apptrade "github.com/stocksync/backend/internal/application/trade"
	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTradeTransactionScope implements the trade application
// TransactionScope using GORM transactions. Order completion settles both
// tenants' inventories through this scope, so all writes commit together.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepositories{tx: tx})
	})
}

type gormTradeRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the transaction
func (r *gormTradeRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// InventoryRepo returns the inventory repository scoped to the transaction
func (r *gormTradeRepositories) InventoryRepo() inventory.Repository {
	return NewGormInventoryRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the transaction
func (r *gormTradeRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the transaction
func (r *gormTradeRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// LocationRepo returns the location repository scoped to the transaction
func (r *gormTradeRepositories) LocationRepo() catalog.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

var _ apptrade.TransactionScope = (*GormTradeTransactionScope)(nil)
var _ apptrade.TransactionalRepositories = (*gormTradeRepositories)(nil)
