package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/domain/trade"
	"github.com/stocksync/backend/internal/infrastructure/config"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPendingCart(ctx context.Context) (*trade.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLocationRepository is a mock implementation of catalog.LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Location, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindFirstByTenant(ctx context.Context, tenantID uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, location *catalog.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

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

// movementLog records appended movements so settlement tests can inspect the
// full ledger trail
type movementLog struct {
	entries []*inventory.Movement
}

func (l *movementLog) Append(_ context.Context, movements ...*inventory.Movement) error {
	l.entries = append(l.entries, movements...)
	return nil
}

func (l *movementLog) FindByInventory(context.Context, uuid.UUID) ([]inventory.Movement, error) {
	return nil, nil
}

func (l *movementLog) FindByReference(context.Context, string) ([]inventory.Movement, error) {
	return nil, nil
}

func (l *movementLog) FindAll(context.Context, shared.Filter) ([]inventory.Movement, int64, error) {
	return nil, 0, nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type orderServiceFixture struct {
	service      *OrderService
	orderRepo    *MockOrderRepository
	invRepo      *MockInventoryRepository
	movements    *movementLog
	productRepo  *MockProductRepository
	locationRepo *MockLocationRepository
	publisher    *recordingPublisher
}

func newOrderServiceFixture(t *testing.T, settlement config.SettlementConfig) *orderServiceFixture {
	t.Helper()
	f := &orderServiceFixture{
		orderRepo:    new(MockOrderRepository),
		invRepo:      new(MockInventoryRepository),
		movements:    &movementLog{},
		productRepo:  new(MockProductRepository),
		locationRepo: new(MockLocationRepository),
		publisher:    &recordingPublisher{},
	}
	scope := NewNoOpTransactionScope(f.orderRepo, f.invRepo, f.movements, f.productRepo, f.locationRepo)
	f.service = NewOrderService(scope, f.orderRepo, f.publisher, settlement, zap.NewNop())
	return f
}

func newSupplierProduct(t *testing.T, supplierID uuid.UUID, price decimal.Decimal) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(supplierID, "Widget", "WID-1", price)
	require.NoError(t, err)
	return product
}

func newStockedInventory(t *testing.T, tenantID, productID uuid.UUID, quantity int64) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewInventory(tenantID, productID, uuid.New())
	require.NoError(t, err)
	if quantity > 0 {
		_, err = inv.AddStock(quantity, inventory.MovementTypeAddition, "", nil)
		require.NoError(t, err)
	}
	inv.ClearDomainEvents()
	return inv
}

// orderWithItem builds an order holding one line of the product, optionally
// already completed
func orderWithItem(t *testing.T, buyerID uuid.UUID, product *catalog.Product, quantity int64, complete bool) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(buyerID, trade.FormatOrderNumber(buyerID, 1))
	require.NoError(t, err)
	require.NoError(t, order.UpsertItem(product.ID, quantity, product.Price))
	if complete {
		require.NoError(t, order.Complete(order.TotalAmount))
	}
	order.ClearDomainEvents()
	return order
}

func TestOrderServiceUpdateCart(t *testing.T) {
	buyerID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), buyerID)
	price := decimal.NewFromInt(25)

	t.Run("opens a new cart with a fresh order number", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, uuid.New(), price)

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.orderRepo.On("FindPendingCart", mock.Anything).Return(nil, shared.ErrNotFound)
		f.orderRepo.On("NextOrderNumber", mock.Anything, buyerID).Return(trade.FormatOrderNumber(buyerID, 1), nil)
		f.orderRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		dto, err := f.service.UpdateCart(ctx, UpdateCartRequest{ProductID: product.ID, QuantityDelta: 3})
		require.NoError(t, err)

		assert.Equal(t, trade.FormatOrderNumber(buyerID, 1), dto.OrderNumber)
		require.Len(t, dto.Items, 1)
		assert.EqualValues(t, 3, dto.Items[0].Quantity)
		assert.True(t, dto.TotalAmount.Equal(decimal.NewFromInt(75)))
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("applies the delta to the existing cart", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, uuid.New(), price)
		cart := orderWithItem(t, buyerID, product, 3, false)

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.orderRepo.On("FindPendingCart", mock.Anything).Return(cart, nil)
		f.orderRepo.On("Save", mock.Anything, cart).Return(nil)

		dto, err := f.service.UpdateCart(ctx, UpdateCartRequest{ProductID: product.ID, QuantityDelta: -1})
		require.NoError(t, err)

		require.Len(t, dto.Items, 1)
		assert.EqualValues(t, 2, dto.Items[0].Quantity)
		assert.True(t, dto.TotalAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("inactive product reads as not found", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, uuid.New(), price)
		product.Deactivate()

		f.productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := f.service.UpdateCart(ctx, UpdateCartRequest{ProductID: product.ID, QuantityDelta: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails without tenant context", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})

		_, err := f.service.UpdateCart(context.Background(), UpdateCartRequest{ProductID: uuid.New(), QuantityDelta: 1})
		assert.ErrorIs(t, err, tenant.ErrTenantIDRequired)
	})
}

func TestOrderServiceCompleteOrder(t *testing.T) {
	buyerID := uuid.New()
	supplierID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), buyerID)
	price := decimal.NewFromInt(25)

	t.Run("settles a cross-tenant item with a dual movement", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)
		supplierInv := newStockedInventory(t, supplierID, product.ID, 10)
		buyerInv := newStockedInventory(t, buyerID, product.ID, 0)
		destination, err := catalog.NewLocation(buyerID, "Main Warehouse", "")
		require.NoError(t, err)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.locationRepo.On("FindFirstByTenant", mock.Anything, buyerID).Return(destination, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, supplierID, product.ID).Return(supplierInv, nil)
		f.invRepo.On("GetOrCreateForUpdate", mock.Anything, buyerID, product.ID, destination.ID).Return(buyerInv, nil)
		f.invRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		dto, err := f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(75),
		})
		require.NoError(t, err)

		assert.Equal(t, string(trade.OrderStatusCompleted), dto.Status)
		assert.Equal(t, string(trade.PaymentStatusPaid), dto.PaymentStatus)

		assert.EqualValues(t, 7, supplierInv.Quantity)
		assert.EqualValues(t, 3, buyerInv.Quantity)

		require.Len(t, f.movements.entries, 2)
		debit, credit := f.movements.entries[0], f.movements.entries[1]
		assert.Equal(t, inventory.MovementTypeSale, debit.Type)
		assert.EqualValues(t, -3, debit.Quantity)
		assert.Equal(t, order.OrderNumber, debit.Reference)
		assert.Equal(t, inventory.MovementTypePurchase, credit.Type)
		assert.EqualValues(t, 3, credit.Quantity)
		assert.Equal(t, order.OrderNumber, credit.Reference)
	})

	t.Run("total mismatch changes nothing", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(74),
		})
		assert.ErrorIs(t, err, shared.ErrTotalMismatch)

		assert.Equal(t, trade.OrderStatusPending, order.Status)
		assert.Equal(t, trade.PaymentStatusUnpaid, order.PaymentStatus)
		assert.Empty(t, f.movements.entries)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("missing destination fails before any movement", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.locationRepo.On("FindFirstByTenant", mock.Anything, buyerID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(75),
		})
		assert.ErrorIs(t, err, shared.ErrNoDestinationLocation)
		assert.Empty(t, f.movements.entries)
	})

	t.Run("missing supplier row skips the debit but still credits the buyer", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)
		buyerInv := newStockedInventory(t, buyerID, product.ID, 0)
		destination, err := catalog.NewLocation(buyerID, "Main Warehouse", "")
		require.NoError(t, err)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.locationRepo.On("FindFirstByTenant", mock.Anything, buyerID).Return(destination, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, supplierID, product.ID).Return(nil, shared.ErrNotFound)
		f.invRepo.On("GetOrCreateForUpdate", mock.Anything, buyerID, product.ID, destination.ID).Return(buyerInv, nil)
		f.invRepo.On("SaveWithLock", mock.Anything, buyerInv).Return(nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		_, err = f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(75),
		})
		require.NoError(t, err)

		require.Len(t, f.movements.entries, 1)
		assert.Equal(t, inventory.MovementTypePurchase, f.movements.entries[0].Type)
		assert.EqualValues(t, 3, buyerInv.Quantity)
	})

	t.Run("strict settlement fails on a missing supplier row", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{StrictSupplierDebit: true})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)
		destination, err := catalog.NewLocation(buyerID, "Main Warehouse", "")
		require.NoError(t, err)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.locationRepo.On("FindFirstByTenant", mock.Anything, buyerID).Return(destination, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, supplierID, product.ID).Return(nil, shared.ErrNotFound)

		_, err = f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(75),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, f.movements.entries)
	})

	t.Run("same-tenant item moves no stock", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, buyerID, price)
		order := orderWithItem(t, buyerID, product, 3, false)
		destination, err := catalog.NewLocation(buyerID, "Main Warehouse", "")
		require.NoError(t, err)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.locationRepo.On("FindFirstByTenant", mock.Anything, buyerID).Return(destination, nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		dto, err := f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(75),
		})
		require.NoError(t, err)

		assert.Equal(t, string(trade.OrderStatusCompleted), dto.Status)
		assert.Empty(t, f.movements.entries)
		f.invRepo.AssertNotCalled(t, "FindFirstByProductForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient supplier stock rolls the completion back", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)
		supplierInv := newStockedInventory(t, supplierID, product.ID, 2)
		destination, err := catalog.NewLocation(buyerID, "Main Warehouse", "")
		require.NoError(t, err)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.locationRepo.On("FindFirstByTenant", mock.Anything, buyerID).Return(destination, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, supplierID, product.ID).Return(supplierInv, nil)

		_, err = f.service.CompleteOrder(ctx, CompleteOrderRequest{
			OrderID:       order.ID,
			ReportedTotal: decimal.NewFromInt(75),
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Empty(t, f.movements.entries)
	})
}

func TestOrderServiceCancelOrder(t *testing.T) {
	buyerID := uuid.New()
	supplierID := uuid.New()
	ctx := tenant.RunWithTenant(context.Background(), buyerID)
	price := decimal.NewFromInt(25)

	t.Run("cancels a pending order without touching stock", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		dto, err := f.service.CancelOrder(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, string(trade.OrderStatusCanceled), dto.Status)
		assert.Empty(t, f.movements.entries)
		f.invRepo.AssertNotCalled(t, "FindFirstByProductForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("canceling a completed order compensates both sides", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, true)
		buyerInv := newStockedInventory(t, buyerID, product.ID, 3)
		supplierInv := newStockedInventory(t, supplierID, product.ID, 7)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, buyerID, product.ID).Return(buyerInv, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, supplierID, product.ID).Return(supplierInv, nil)
		f.invRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		dto, err := f.service.CancelOrder(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, string(trade.OrderStatusCanceled), dto.Status)
		assert.EqualValues(t, 0, buyerInv.Quantity)
		assert.EqualValues(t, 10, supplierInv.Quantity)

		reference := order.OrderNumber + "/cancel"
		require.Len(t, f.movements.entries, 2)
		giveBack, recredit := f.movements.entries[0], f.movements.entries[1]
		assert.Equal(t, inventory.MovementTypeRemoval, giveBack.Type)
		assert.EqualValues(t, -3, giveBack.Quantity)
		assert.Equal(t, reference, giveBack.Reference)
		assert.Equal(t, inventory.MovementTypeAddition, recredit.Type)
		assert.EqualValues(t, 3, recredit.Quantity)
		assert.Equal(t, reference, recredit.Reference)
	})

	t.Run("skipped debit at completion means nothing to recredit", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, true)
		buyerInv := newStockedInventory(t, buyerID, product.ID, 3)

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, buyerID, product.ID).Return(buyerInv, nil)
		f.invRepo.On("FindFirstByProductForUpdate", mock.Anything, supplierID, product.ID).Return(nil, shared.ErrNotFound)
		f.invRepo.On("SaveWithLock", mock.Anything, buyerInv).Return(nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		_, err := f.service.CancelOrder(ctx, order.ID)
		require.NoError(t, err)

		require.Len(t, f.movements.entries, 1)
		assert.Equal(t, inventory.MovementTypeRemoval, f.movements.entries[0].Type)
	})

	t.Run("canceled order cannot cancel again", func(t *testing.T) {
		f := newOrderServiceFixture(t, config.SettlementConfig{})
		product := newSupplierProduct(t, supplierID, price)
		order := orderWithItem(t, buyerID, product, 3, false)
		require.NoError(t, order.Cancel())
		order.ClearDomainEvents()

		f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := f.service.CancelOrder(ctx, order.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
