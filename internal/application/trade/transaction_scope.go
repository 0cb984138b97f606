package trade

import (
	"context"

	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories order
// processing touches. Completion settles both tenants' stock inside one
// transaction, so an order is either fully settled or not settled at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories share the same underlying transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the transaction
	OrderRepo() trade.OrderRepository
	// InventoryRepo returns the inventory repository scoped to the transaction
	InventoryRepo() inventory.Repository
	// MovementRepo returns the movement ledger scoped to the transaction
	MovementRepo() inventory.MovementRepository
	// ProductRepo returns the product repository scoped to the transaction
	ProductRepo() catalog.ProductRepository
	// LocationRepo returns the location repository scoped to the transaction
	LocationRepo() catalog.LocationRepository
}

// NoOpTransactionScope runs the function without a real transaction. Useful
// in tests where repositories are mocked.
type NoOpTransactionScope struct {
	orderRepo    trade.OrderRepository
	invRepo      inventory.Repository
	movementRepo inventory.MovementRepository
	productRepo  catalog.ProductRepository
	locationRepo catalog.LocationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	invRepo inventory.Repository,
	movementRepo inventory.MovementRepository,
	productRepo catalog.ProductRepository,
	locationRepo catalog.LocationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		invRepo:      invRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// Execute runs the function without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository { return s.orderRepo }

// InventoryRepo returns the inventory repository
func (s *NoOpTransactionScope) InventoryRepo() inventory.Repository { return s.invRepo }

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository { return s.movementRepo }

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// LocationRepo returns the location repository
func (s *NoOpTransactionScope) LocationRepo() catalog.LocationRepository { return s.locationRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
