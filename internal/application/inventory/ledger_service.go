package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// LedgerService coordinates stock mutations. Every mutation updates the
// inventory row and appends its ledger movement in one transaction; domain
// events are published only after the transaction commits.
type LedgerService struct {
	scope        TransactionScope
	invRepo      inventory.Repository
	movementRepo inventory.MovementRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	invRepo inventory.Repository,
	movementRepo inventory.MovementRepository,
	events shared.EventPublisher,
	log *zap.Logger,
) *LedgerService {
	return &LedgerService{
		scope:        scope,
		invRepo:      invRepo,
		movementRepo: movementRepo,
		events:       events,
		logger:       log,
	}
}

// AddStock increases the quantity of a product at a location, creating the
// inventory row on first receipt.
func (s *LedgerService) AddStock(ctx context.Context, req StockMutationRequest) (*MutationResult, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	var result *MutationResult
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InventoryRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		movement, err := inv.AddStock(req.Quantity, inventory.MovementTypeAddition, req.Reference, actingUser(ctx))
		if err != nil {
			return err
		}

		if err := repos.InventoryRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		pending = collectEvents(inv)
		result = &MutationResult{Inventory: toInventoryDTO(inv), Movement: toMovementDTO(movement)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)

	logger.L(ctx).Info("stock added",
		zap.String("product_id", req.ProductID.String()),
		zap.String("location_id", req.LocationID.String()),
		zap.Int64("quantity", req.Quantity),
	)

	return result, nil
}

// RemoveStock decreases the quantity of a product at a location. Removing
// more than is on hand fails without touching the row or the ledger.
func (s *LedgerService) RemoveStock(ctx context.Context, req StockMutationRequest) (*MutationResult, error) {
	var result *MutationResult
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InventoryRepo().FindByProductAndLocationForUpdate(ctx, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		movement, err := inv.RemoveStock(req.Quantity, inventory.MovementTypeRemoval, req.Reference, actingUser(ctx))
		if err != nil {
			return err
		}

		if err := repos.InventoryRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		pending = collectEvents(inv)
		result = &MutationResult{Inventory: toInventoryDTO(inv), Movement: toMovementDTO(movement)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)

	logger.L(ctx).Info("stock removed",
		zap.String("product_id", req.ProductID.String()),
		zap.String("location_id", req.LocationID.String()),
		zap.Int64("quantity", req.Quantity),
	)

	return result, nil
}

// AdjustStock sets an absolute quantity and records the signed difference as
// an adjustment movement. A no-change adjustment records nothing.
func (s *LedgerService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*MutationResult, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	var result *MutationResult
	var pending []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InventoryRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}

		movement, err := inv.AdjustStock(req.NewQuantity, req.Reference, actingUser(ctx))
		if err != nil {
			return err
		}
		if movement == nil {
			result = &MutationResult{Inventory: toInventoryDTO(inv)}
			return nil
		}

		if err := repos.InventoryRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		pending = collectEvents(inv)
		result = &MutationResult{Inventory: toInventoryDTO(inv), Movement: toMovementDTO(movement)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	return result, nil
}

// SetReorderThreshold changes the low-stock alert threshold and the stock
// ceiling of a row
func (s *LedgerService) SetReorderThreshold(ctx context.Context, req SetThresholdRequest) (*InventoryDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	var dto InventoryDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InventoryRepo().GetOrCreateForUpdate(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}
		if err := inv.SetStockLevels(req.Threshold, req.MaxStockLevel); err != nil {
			return err
		}
		if err := repos.InventoryRepo().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		dto = toInventoryDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// GetInventory returns one inventory row
func (s *LedgerService) GetInventory(ctx context.Context, productID, locationID uuid.UUID) (*InventoryDTO, error) {
	inv, err := s.invRepo.FindByProductAndLocation(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	dto := toInventoryDTO(inv)
	return &dto, nil
}

// ListInventory lists inventory rows of the current tenant
func (s *LedgerService) ListInventory(ctx context.Context, filter shared.Filter) ([]InventoryDTO, int64, error) {
	rows, count, err := s.invRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]InventoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toInventoryDTO(&rows[i]))
	}
	return dtos, count, nil
}

// GetLedger returns the movement history of one inventory row, oldest first
func (s *LedgerService) GetLedger(ctx context.Context, inventoryID uuid.UUID) ([]MovementDTO, error) {
	if _, err := s.invRepo.FindByID(ctx, inventoryID); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByInventory(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	dtos := make([]MovementDTO, 0, len(movements))
	for i := range movements {
		dtos = append(dtos, *toMovementDTO(&movements[i]))
	}
	return dtos, nil
}

// publish dispatches events after commit. Event handler failures are logged
// by the bus and never affect the completed mutation.
func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

// actingUser extracts the acting user ID from context, if present
func actingUser(ctx context.Context) *uuid.UUID {
	raw := logger.GetUserID(ctx)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// collectEvents drains pending domain events from an aggregate
func collectEvents(agg shared.AggregateRoot) []shared.DomainEvent {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	return events
}
