package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Location is a physical or logical place where an organization holds stock.
// Order settlement credits the buyer's first location by creation time.
type Location struct {
	shared.TenantAggregateRoot
	Name    string `gorm:"type:varchar(255);not null"`
	Address string `gorm:"type:text"`
	Active  bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new active location
func NewLocation(tenantID uuid.UUID, name, address string) (*Location, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}

	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Address:             address,
		Active:              true,
	}, nil
}

// Deactivate closes the location
func (l *Location) Deactivate() {
	l.Active = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
