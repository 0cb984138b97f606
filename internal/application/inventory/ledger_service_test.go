package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockInventoryRepository is a mock implementation of inventory.Repository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, productID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByProductAndLocationForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, productID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) GetOrCreateForUpdate(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, tenantID, productID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindFirstByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Inventory, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]inventory.Inventory), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryRepository) FindBelowThreshold(ctx context.Context) ([]inventory.Inventory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInventoryRepository) SaveWithLock(ctx context.Context, inv *inventory.Inventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movements ...*inventory.Movement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByInventory(ctx context.Context, inventoryID uuid.UUID) ([]inventory.Movement, error) {
	args := m.Called(ctx, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByReference(ctx context.Context, reference string) ([]inventory.Movement, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Movement, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]inventory.Movement), args.Get(1).(int64), args.Error(2)
}

// recordingPublisher collects published events for assertions
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newLedgerServiceForTest(t *testing.T) (*LedgerService, *MockInventoryRepository, *MockMovementRepository, *recordingPublisher) {
	t.Helper()
	invRepo := new(MockInventoryRepository)
	movementRepo := new(MockMovementRepository)
	publisher := &recordingPublisher{}
	scope := NewNoOpTransactionScope(invRepo, movementRepo)
	svc := NewLedgerService(scope, invRepo, movementRepo, publisher, zap.NewNop())
	return svc, invRepo, movementRepo, publisher
}

func seededInventory(t *testing.T, tenantID uuid.UUID, quantity, threshold int64) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewInventory(tenantID, uuid.New(), uuid.New())
	require.NoError(t, err)
	if quantity > 0 {
		_, err = inv.AddStock(quantity, inventory.MovementTypeAddition, "", nil)
		require.NoError(t, err)
	}
	if threshold > 0 {
		require.NoError(t, inv.SetReorderThreshold(threshold))
	}
	inv.ClearDomainEvents()
	return inv
}

func TestLedgerServiceAddStock(t *testing.T) {
	tenantID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), tenantID)

	t.Run("creates row and appends movement", func(t *testing.T) {
		svc, invRepo, movementRepo, _ := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 0, 0)

		invRepo.On("GetOrCreateForUpdate", mock.Anything, tenantID, inv.ProductID, inv.LocationID).Return(inv, nil)
		invRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.AddStock(ctx, StockMutationRequest{
			ProductID:  inv.ProductID,
			LocationID: inv.LocationID,
			Quantity:   10,
			Reference:  "PO-1",
		})
		require.NoError(t, err)

		assert.EqualValues(t, 10, result.Inventory.Quantity)
		require.NotNil(t, result.Movement)
		assert.EqualValues(t, 10, result.Movement.Quantity)
		assert.Equal(t, "PO-1", result.Movement.Reference)

		invRepo.AssertExpectations(t)
		movementRepo.AssertExpectations(t)
	})

	t.Run("addition leaving stock below threshold publishes a low stock event", func(t *testing.T) {
		svc, invRepo, movementRepo, publisher := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 0, 5)

		invRepo.On("GetOrCreateForUpdate", mock.Anything, tenantID, inv.ProductID, inv.LocationID).Return(inv, nil)
		invRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.AddStock(ctx, StockMutationRequest{
			ProductID:  inv.ProductID,
			LocationID: inv.LocationID,
			Quantity:   3,
		})
		require.NoError(t, err)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, inventory.EventTypeStockBelowThreshold, publisher.events[0].EventType())
	})

	t.Run("fails without tenant context", func(t *testing.T) {
		svc, _, _, _ := newLedgerServiceForTest(t)

		_, err := svc.AddStock(context.Background(), StockMutationRequest{
			ProductID:  uuid.New(),
			LocationID: uuid.New(),
			Quantity:   1,
		})
		assert.ErrorIs(t, err, tenant.ErrTenantIDRequired)
	})
}

func TestLedgerServiceRemoveStock(t *testing.T) {
	tenantID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), tenantID)

	t.Run("insufficient stock rolls back without writes", func(t *testing.T) {
		svc, invRepo, movementRepo, publisher := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 5, 0)

		invRepo.On("FindByProductAndLocationForUpdate", mock.Anything, inv.ProductID, inv.LocationID).Return(inv, nil)

		_, err := svc.RemoveStock(ctx, StockMutationRequest{
			ProductID:  inv.ProductID,
			LocationID: inv.LocationID,
			Quantity:   6,
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		invRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		movementRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.events)
	})

	t.Run("crossing the threshold publishes a low stock event", func(t *testing.T) {
		svc, invRepo, movementRepo, publisher := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 6, 5)

		invRepo.On("FindByProductAndLocationForUpdate", mock.Anything, inv.ProductID, inv.LocationID).Return(inv, nil)
		invRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.RemoveStock(ctx, StockMutationRequest{
			ProductID:  inv.ProductID,
			LocationID: inv.LocationID,
			Quantity:   1,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 5, result.Inventory.Quantity)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, inventory.EventTypeStockBelowThreshold, publisher.events[0].EventType())
	})

	t.Run("unknown row reads as not found", func(t *testing.T) {
		svc, invRepo, _, _ := newLedgerServiceForTest(t)
		productID := uuid.New()
		locationID := uuid.New()

		invRepo.On("FindByProductAndLocationForUpdate", mock.Anything, productID, locationID).Return(nil, shared.ErrNotFound)

		_, err := svc.RemoveStock(ctx, StockMutationRequest{
			ProductID:  productID,
			LocationID: locationID,
			Quantity:   1,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerServiceAdjustStock(t *testing.T) {
	tenantID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), tenantID)

	t.Run("records the signed difference", func(t *testing.T) {
		svc, invRepo, movementRepo, _ := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 10, 0)

		invRepo.On("GetOrCreateForUpdate", mock.Anything, tenantID, inv.ProductID, inv.LocationID).Return(inv, nil)
		invRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.AdjustStock(ctx, AdjustStockRequest{
			ProductID:   inv.ProductID,
			LocationID:  inv.LocationID,
			NewQuantity: 4,
			Reference:   "stocktake",
		})
		require.NoError(t, err)
		require.NotNil(t, result.Movement)
		assert.EqualValues(t, -6, result.Movement.Quantity)
		assert.EqualValues(t, 4, result.Inventory.Quantity)
	})

	t.Run("no-change adjustment records nothing", func(t *testing.T) {
		svc, invRepo, movementRepo, _ := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 10, 0)

		invRepo.On("GetOrCreateForUpdate", mock.Anything, tenantID, inv.ProductID, inv.LocationID).Return(inv, nil)

		result, err := svc.AdjustStock(ctx, AdjustStockRequest{
			ProductID:   inv.ProductID,
			LocationID:  inv.LocationID,
			NewQuantity: 10,
		})
		require.NoError(t, err)
		assert.Nil(t, result.Movement)

		invRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		movementRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestLedgerServiceGetLedger(t *testing.T) {
	tenantID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), tenantID)

	t.Run("returns the movement history oldest first", func(t *testing.T) {
		svc, invRepo, movementRepo, _ := newLedgerServiceForTest(t)
		inv := seededInventory(t, tenantID, 0, 0)

		m1, err := inv.AddStock(10, inventory.MovementTypeAddition, "", nil)
		require.NoError(t, err)
		m2, err := inv.RemoveStock(3, inventory.MovementTypeSale, "ORD-1", nil)
		require.NoError(t, err)

		invRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		movementRepo.On("FindByInventory", mock.Anything, inv.ID).Return([]inventory.Movement{*m1, *m2}, nil)

		movements, err := svc.GetLedger(ctx, inv.ID)
		require.NoError(t, err)
		require.Len(t, movements, 2)
		assert.EqualValues(t, 10, movements[0].Quantity)
		assert.EqualValues(t, -3, movements[1].Quantity)
	})

	t.Run("unknown row reads as not found", func(t *testing.T) {
		svc, invRepo, _, _ := newLedgerServiceForTest(t)
		id := uuid.New()

		invRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetLedger(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
