package inventory

import (
	"context"

	"github.com/stocksync/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory
// repositories. A stock mutation writes the quantity update and its ledger
// movement through the same scope so both commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// InventoryRepo returns the inventory repository scoped to the transaction
	InventoryRepo() inventory.Repository
	// MovementRepo returns the movement ledger scoped to the transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction. Useful
// in tests where repositories are mocked.
type NoOpTransactionScope struct {
	inventoryRepo inventory.Repository
	movementRepo  inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(inventoryRepo inventory.Repository, movementRepo inventory.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
	}
}

// Execute runs the function without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InventoryRepo returns the inventory repository
func (s *NoOpTransactionScope) InventoryRepo() inventory.Repository {
	return s.inventoryRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
