// Package tenant provides multi-tenant database scoping for GORM.
//
// Every tenant-owned table carries a tenant_id column. The scoping layer
// extracts the current organization ID from the request context and applies
// WHERE tenant_id = ? to queries, updates and deletes through GORM callbacks,
// so repositories never filter by tenant manually. A row belonging to another
// tenant behaves exactly like a row that does not exist.
//
// Usage:
//
//	ctx = tenant.RunWithTenant(ctx, orgID)
//	db := tenant.NewTenantDB(gormDB)
//	db.WithContext(ctx).Find(&products) // WHERE tenant_id = ? auto-added
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a scoped operation runs without a
// tenant in context
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// ErrInvalidTenantID is returned when the tenant_id in context is not a UUID
var ErrInvalidTenantID = errors.New("invalid tenant_id format")

// ErrCrossTenantWrite is returned when a create carries a tenant_id other
// than the ambient one
var ErrCrossTenantWrite = errors.New("row tenant_id does not match ambient tenant")

type systemKeyType struct{}

var systemKey systemKeyType

// RunWithTenant returns a context scoped to the given organization. All
// scoped database operations under the returned context see only that
// organization's rows. Scopes nest; the innermost tenant wins.
func RunWithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
	return ctx
}

// AsSystem returns a context that bypasses tenant filtering. Reserved for
// migrations, cross-tenant settlement and other system-level work; request
// handlers must never use it directly.
func AsSystem(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemKey, true)
}

// IsSystem reports whether the context bypasses tenant filtering
func IsSystem(ctx context.Context) bool {
	v, _ := ctx.Value(systemKey).(bool)
	return v
}

// CurrentTenant returns the ambient organization ID, or uuid.Nil when the
// context carries none.
func CurrentTenant(ctx context.Context) uuid.UUID {
	raw := logger.GetTenantID(ctx)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// TenantScope applies tenant filtering to a GORM query
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// TenantDB wraps a GORM DB with automatic tenant scoping
type TenantDB struct {
	db           *gorm.DB
	tenantColumn string
	required     bool
}

// Config holds configuration for TenantDB
type Config struct {
	// TenantColumn is the name of the tenant ID column (default: "tenant_id")
	TenantColumn string
	// Required determines if a tenant in context is mandatory (default: true)
	Required bool
}

// DefaultConfig returns the default TenantDB configuration
func DefaultConfig() Config {
	return Config{
		TenantColumn: "tenant_id",
		Required:     true,
	}
}

// NewTenantDB creates a TenantDB with default configuration and registers
// the scoping callbacks on the underlying connection.
func NewTenantDB(db *gorm.DB) *TenantDB {
	return NewTenantDBWithConfig(db, DefaultConfig())
}

// NewTenantDBWithConfig creates a TenantDB with custom configuration
func NewTenantDBWithConfig(db *gorm.DB, cfg Config) *TenantDB {
	if cfg.TenantColumn == "" {
		cfg.TenantColumn = "tenant_id"
	}
	cb := NewTenantCallback(cfg.TenantColumn, cfg.Required)
	cb.RegisterCallbacks(db)
	return &TenantDB{
		db:           db,
		tenantColumn: cfg.TenantColumn,
		required:     cfg.Required,
	}
}

// DB returns the underlying GORM DB without tenant scoping.
// Use with caution, this bypasses tenant isolation.
func (t *TenantDB) DB() *gorm.DB {
	return t.db
}

// WithContext returns a GORM DB bound to the context. Scoping itself happens
// in the registered callbacks, which read the tenant from the statement
// context, so the same DB works for both scoped and AsSystem contexts.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	if IsSystem(ctx) {
		return t.db.WithContext(ctx)
	}

	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" {
		if t.required {
			db := t.db.WithContext(ctx)
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return t.db.WithContext(ctx)
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidTenantID)
		return db
	}

	return t.db.WithContext(ctx)
}

// Transaction executes fn inside a database transaction under the context's
// tenant scope.
func (t *TenantDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if !IsSystem(ctx) && t.required && logger.GetTenantID(ctx) == "" {
		return ErrTenantIDRequired
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}
