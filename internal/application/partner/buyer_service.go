package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/partner"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// RegisterBuyerRequest links a purchasing organization to the supplier
type RegisterBuyerRequest struct {
	BuyerOrgID uuid.UUID `json:"buyer_org_id" binding:"required"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
}

// BuyerDTO is the read model for a buyer
type BuyerDTO struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	BuyerOrgID  uuid.UUID       `json:"buyer_org_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Active      bool            `json:"active"`
}

// BuyerService manages the supplier-side registry of purchasing
// organizations. Buyer codes are sequential per supplier.
type BuyerService struct {
	buyerRepo partner.BuyerRepository
	orgRepo   identity.OrganizationRepository
	logger    *zap.Logger
}

// NewBuyerService creates a new BuyerService
func NewBuyerService(buyerRepo partner.BuyerRepository, orgRepo identity.OrganizationRepository, log *zap.Logger) *BuyerService {
	return &BuyerService{
		buyerRepo: buyerRepo,
		orgRepo:   orgRepo,
		logger:    log,
	}
}

// Register links a purchasing organization to the calling supplier,
// allocating the next buyer code. Registering the same organization twice
// returns the existing record.
func (s *BuyerService) Register(ctx context.Context, req RegisterBuyerRequest) (*BuyerDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	existing, err := s.buyerRepo.FindByBuyerOrg(ctx, req.BuyerOrgID)
	if err == nil {
		dto := toBuyerDTO(existing)
		return &dto, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, req.BuyerOrgID)
	if err != nil {
		return nil, err
	}
	if !org.Active || !org.Type.CanBuy() {
		return nil, shared.ErrInvalidState
	}

	code, err := s.buyerRepo.NextBuyerCode(ctx)
	if err != nil {
		return nil, err
	}

	buyer, err := partner.NewBuyer(tenantID, org.ID, code, org.Name)
	if err != nil {
		return nil, err
	}
	buyer.Email = req.Email
	buyer.Phone = req.Phone

	if err := s.buyerRepo.Save(ctx, buyer); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("buyer registered",
		zap.String("buyer_id", buyer.ID.String()),
		zap.String("code", buyer.Code),
	)

	dto := toBuyerDTO(buyer)
	return &dto, nil
}

// SetCreditLimit updates a buyer's credit limit
func (s *BuyerService) SetCreditLimit(ctx context.Context, buyerID uuid.UUID, limit decimal.Decimal) (*BuyerDTO, error) {
	buyer, err := s.buyerRepo.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if err := buyer.SetCreditLimit(limit); err != nil {
		return nil, err
	}
	if err := s.buyerRepo.Save(ctx, buyer); err != nil {
		return nil, err
	}
	dto := toBuyerDTO(buyer)
	return &dto, nil
}

// List lists buyers of the current supplier
func (s *BuyerService) List(ctx context.Context, filter shared.Filter) ([]BuyerDTO, error) {
	buyers, err := s.buyerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]BuyerDTO, 0, len(buyers))
	for i := range buyers {
		dtos = append(dtos, toBuyerDTO(&buyers[i]))
	}
	return dtos, nil
}

func toBuyerDTO(b *partner.Buyer) BuyerDTO {
	return BuyerDTO{
		ID:          b.ID,
		Code:        b.Code,
		BuyerOrgID:  b.BuyerOrgID,
		Name:        b.Name,
		Email:       b.Email,
		CreditLimit: b.CreditLimit,
		Active:      b.Active,
	}
}
