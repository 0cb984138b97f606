package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/domain/trade"
	"github.com/stocksync/backend/internal/infrastructure/config"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// OrderService drives the cart-to-order lifecycle and the cross-tenant
// settlement at completion. All writes of one operation share a single
// transaction; settlement is all-or-nothing per order.
type OrderService struct {
	scope      TransactionScope
	orderRepo  trade.OrderRepository
	events     shared.EventPublisher
	settlement config.SettlementConfig
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope TransactionScope,
	orderRepo trade.OrderRepository,
	events shared.EventPublisher,
	settlement config.SettlementConfig,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		scope:      scope,
		orderRepo:  orderRepo,
		events:     events,
		settlement: settlement,
		logger:     log,
	}
}

// UpdateCart applies a signed quantity delta for a product to the tenant's
// open cart, opening a new pending order when none exists. The unit price is
// captured from the product at add time, and the order total is recomputed
// after the mutation.
func (s *OrderService) UpdateCart(ctx context.Context, req UpdateCartRequest) (*OrderDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	var dto *OrderDTO
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// products may belong to a supplying tenant, so the lookup runs
		// outside the buyer's scope
		product, err := repos.ProductRepo().FindByID(tenant.AsSystem(ctx), req.ProductID)
		if err != nil {
			return err
		}
		if !product.Active {
			return shared.ErrNotFound
		}

		order, err := repos.OrderRepo().FindPendingCart(ctx)
		if errors.Is(err, shared.ErrNotFound) {
			number, numErr := repos.OrderRepo().NextOrderNumber(ctx, tenantID)
			if numErr != nil {
				return numErr
			}
			order, err = trade.NewOrder(tenantID, number)
		}
		if err != nil {
			return err
		}

		if err := order.UpsertItem(product.ID, req.QuantityDelta, product.Price); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		pending = collectEvents(order)
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return dto, nil
}

// CompleteOrder finalizes an order. The reported total must equal the
// recomputed authoritative total; on mismatch nothing changes. On success
// every cross-tenant item is settled with a dual movement: a sale debit on
// the supplier and a purchase credit at the buyer's destination location,
// all inside the order's transaction.
func (s *OrderService) CompleteOrder(ctx context.Context, req CompleteOrderRequest) (*OrderDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}
	sysCtx := tenant.AsSystem(ctx)

	var dto *OrderDTO
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		if err := order.Complete(req.ReportedTotal); err != nil {
			return err
		}

		products, err := s.loadProducts(sysCtx, repos, order)
		if err != nil {
			return err
		}

		// the buyer's destination resolves before any movement is applied
		destination, err := repos.LocationRepo().FindFirstByTenant(sysCtx, order.TenantID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNoDestinationLocation
		}
		if err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			product, ok := products[item.ProductID]
			if !ok {
				return shared.ErrNotFound
			}

			events, err := s.settleItem(sysCtx, repos, order, item, product, destination)
			if err != nil {
				return err
			}
			pending = append(pending, events...)
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		pending = append(pending, collectEvents(order)...)
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)

	logger.L(ctx).Info("order completed",
		zap.String("order_id", req.OrderID.String()),
		zap.String("total", req.ReportedTotal.String()),
	)

	return dto, nil
}

// settleItem performs the dual movement for one order line. A supplier and
// buyer in the same tenant is an internal restock and moves nothing.
func (s *OrderService) settleItem(
	sysCtx context.Context,
	repos TransactionalRepositories,
	order *trade.Order,
	item *trade.OrderItem,
	product *catalog.Product,
	destination *catalog.Location,
) ([]shared.DomainEvent, error) {
	supplierID := product.TenantID
	buyerID := order.TenantID
	if supplierID == buyerID {
		return nil, nil
	}

	var pending []shared.DomainEvent

	// supplier-side debit
	supplierInv, err := repos.InventoryRepo().FindFirstByProductForUpdate(sysCtx, supplierID, product.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if s.settlement.StrictSupplierDebit {
			return nil, shared.ErrNotFound
		}
		// the supplier has no inventory row for this product; the debit is
		// skipped while the buyer credit still proceeds
		s.logger.Warn("supplier inventory row missing, skipping debit",
			zap.String("order_number", order.OrderNumber),
			zap.String("supplier_id", supplierID.String()),
			zap.String("product_id", product.ID.String()),
		)
	case err != nil:
		return nil, err
	default:
		movement, err := supplierInv.RemoveStock(item.Quantity, inventory.MovementTypeSale, order.OrderNumber, nil)
		if err != nil {
			return nil, err
		}
		if err := repos.InventoryRepo().SaveWithLock(sysCtx, supplierInv); err != nil {
			return nil, err
		}
		if err := repos.MovementRepo().Append(sysCtx, movement); err != nil {
			return nil, err
		}
		pending = append(pending, collectEvents(supplierInv)...)
	}

	// buyer-side credit
	buyerInv, err := repos.InventoryRepo().GetOrCreateForUpdate(sysCtx, buyerID, product.ID, destination.ID)
	if err != nil {
		return nil, err
	}
	movement, err := buyerInv.AddStock(item.Quantity, inventory.MovementTypePurchase, order.OrderNumber, nil)
	if err != nil {
		return nil, err
	}
	if err := repos.InventoryRepo().SaveWithLock(sysCtx, buyerInv); err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Append(sysCtx, movement); err != nil {
		return nil, err
	}
	pending = append(pending, collectEvents(buyerInv)...)

	return pending, nil
}

// CancelOrder cancels an order. Canceling a completed order reverses its
// settlement with new compensating movements; ledger history is never
// edited.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}
	sysCtx := tenant.AsSystem(ctx)

	var dto *OrderDTO
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		wasCompleted := order.Status == trade.OrderStatusCompleted
		if err := order.Cancel(); err != nil {
			return err
		}

		if wasCompleted {
			events, err := s.reverseSettlement(sysCtx, repos, order)
			if err != nil {
				return err
			}
			pending = append(pending, events...)
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		pending = append(pending, collectEvents(order)...)
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return dto, nil
}

// reverseSettlement compensates a completed order: the buyer gives the stock
// back and each cross-tenant supplier is recredited.
func (s *OrderService) reverseSettlement(sysCtx context.Context, repos TransactionalRepositories, order *trade.Order) ([]shared.DomainEvent, error) {
	products, err := s.loadProducts(sysCtx, repos, order)
	if err != nil {
		return nil, err
	}

	reference := order.OrderNumber + "/cancel"
	var pending []shared.DomainEvent

	for i := range order.Items {
		item := &order.Items[i]
		product, ok := products[item.ProductID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		if product.TenantID == order.TenantID {
			continue
		}

		buyerInv, err := repos.InventoryRepo().FindFirstByProductForUpdate(sysCtx, order.TenantID, product.ID)
		if err != nil {
			return nil, err
		}
		movement, err := buyerInv.RemoveStock(item.Quantity, inventory.MovementTypeRemoval, reference, nil)
		if err != nil {
			return nil, err
		}
		if err := repos.InventoryRepo().SaveWithLock(sysCtx, buyerInv); err != nil {
			return nil, err
		}
		if err := repos.MovementRepo().Append(sysCtx, movement); err != nil {
			return nil, err
		}
		pending = append(pending, collectEvents(buyerInv)...)

		supplierInv, err := repos.InventoryRepo().FindFirstByProductForUpdate(sysCtx, product.TenantID, product.ID)
		if errors.Is(err, shared.ErrNotFound) {
			// debit was skipped at completion; nothing to recredit
			continue
		}
		if err != nil {
			return nil, err
		}
		movement, err = supplierInv.AddStock(item.Quantity, inventory.MovementTypeAddition, reference, nil)
		if err != nil {
			return nil, err
		}
		if err := repos.InventoryRepo().SaveWithLock(sysCtx, supplierInv); err != nil {
			return nil, err
		}
		if err := repos.MovementRepo().Append(sysCtx, movement); err != nil {
			return nil, err
		}
		pending = append(pending, collectEvents(supplierInv)...)
	}

	return pending, nil
}

// GetOrder returns one order with its items
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// GetCart returns the tenant's open pending order
func (s *OrderService) GetCart(ctx context.Context) (*OrderDTO, error) {
	order, err := s.orderRepo.FindPendingCart(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// ListOrders lists orders of the current tenant
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) ([]OrderDTO, int64, error) {
	orders, count, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *toOrderDTO(&orders[i]))
	}
	return dtos, count, nil
}

// loadProducts resolves every product referenced by the order's items,
// regardless of owning tenant
func (s *OrderService) loadProducts(sysCtx context.Context, repos TransactionalRepositories, order *trade.Order) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		ids = append(ids, order.Items[i].ProductID)
	}
	rows, err := repos.ProductRepo().FindByIDs(sysCtx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*catalog.Product, len(rows))
	for i := range rows {
		products[rows[i].ID] = &rows[i]
	}
	return products, nil
}

// publish dispatches events after commit
func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

// collectEvents drains pending domain events from an aggregate
func collectEvents(agg shared.AggregateRoot) []shared.DomainEvent {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	return events
}
