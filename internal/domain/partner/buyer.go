package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Buyer is a supplier-side record of an organization that purchases from it.
// The owning tenant is the supplier; BuyerOrgID points at the purchasing
// organization. Codes are sequential per supplier in the form BUY0001.
type Buyer struct {
	shared.TenantAggregateRoot
	Code        string          `gorm:"type:varchar(20);not null;index"` // unique per tenant, enforced in migrations
	BuyerOrgID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Email       string          `gorm:"type:varchar(255)"`
	Phone       string          `gorm:"type:varchar(20)"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Buyer) TableName() string {
	return "buyers"
}

// FormatBuyerCode renders the nth buyer code for a supplier
func FormatBuyerCode(seq int) string {
	return fmt.Sprintf("BUY%04d", seq)
}

// NewBuyer creates a new buyer record under the supplier tenant
func NewBuyer(tenantID, buyerOrgID uuid.UUID, code, name string) (*Buyer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if buyerOrgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER_ORG", "Buyer organization ID is required")
	}
	if tenantID == buyerOrgID {
		return nil, shared.NewDomainError("INVALID_BUYER_ORG", "Organization cannot be its own buyer")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Buyer name cannot be empty")
	}

	return &Buyer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		BuyerOrgID:          buyerOrgID,
		Name:                name,
		CreditLimit:         decimal.Zero,
		Active:              true,
	}, nil
}

// SetCreditLimit updates the buyer's credit limit
func (b *Buyer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	b.CreditLimit = limit
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Deactivate disables the buyer relationship
func (b *Buyer) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
