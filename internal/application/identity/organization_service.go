package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrganizationService handles organization onboarding and activation.
// Organizations come to life inactive; the created event triggers the
// activation email, and redeeming the token flips them active exactly once.
type OrganizationService struct {
	orgRepo identity.OrganizationRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo identity.OrganizationRepository, events shared.EventPublisher, log *zap.Logger) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		events:  events,
		logger:  log,
	}
}

// Onboard creates a new inactive organization with a fresh activation token
func (s *OrganizationService) Onboard(ctx context.Context, req OnboardOrganizationRequest) (*OrganizationDTO, error) {
	taken, err := s.orgRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists
	}

	org, err := identity.NewOrganization(req.Name, identity.OrganizationType(req.Type), req.ContactEmail)
	if err != nil {
		return nil, err
	}
	org.ContactPhone = req.ContactPhone
	org.Address = req.Address

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	events := org.GetDomainEvents()
	org.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish organization events", zap.Error(err))
	}

	logger.L(ctx).Info("organization onboarded",
		zap.String("organization_id", org.ID.String()),
		zap.String("name", org.Name),
	)

	dto := toOrganizationDTO(org)
	return &dto, nil
}

// Activate redeems an activation token. An unknown or already-used token
// reads as not found.
func (s *OrganizationService) Activate(ctx context.Context, token uuid.UUID) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByActivationToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := org.Activate(token); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	events := org.GetDomainEvents()
	org.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish organization events", zap.Error(err))
	}

	logger.L(ctx).Info("organization activated",
		zap.String("organization_id", org.ID.String()),
	)

	dto := toOrganizationDTO(org)
	return &dto, nil
}

// Get returns one organization
func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOrganizationDTO(org)
	return &dto, nil
}

// List lists organizations
func (s *OrganizationService) List(ctx context.Context, filter shared.Filter) ([]OrganizationDTO, error) {
	orgs, err := s.orgRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrganizationDTO, 0, len(orgs))
	for i := range orgs {
		dtos = append(dtos, toOrganizationDTO(&orgs[i]))
	}
	return dtos, nil
}
