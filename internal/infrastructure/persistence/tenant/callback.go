package tenant

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// TenantCallback provides GORM callback hooks for automatic tenant filtering
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback creates a new tenant callback handler
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// RegisterCallbacks registers tenant callbacks with GORM
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.beforeQuery)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.beforeUpdate)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.beforeDelete)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.beforeQuery)
	_ = db.Callback().Create().Before("gorm:create").Register("tenant:before_create", tc.beforeCreate)
}

func (tc *TenantCallback) beforeQuery(db *gorm.DB) {
	tc.addTenantFilter(db)
}

func (tc *TenantCallback) beforeUpdate(db *gorm.DB) {
	tc.addTenantFilter(db)
}

func (tc *TenantCallback) beforeDelete(db *gorm.DB) {
	tc.addTenantFilter(db)
}

// beforeCreate rejects rows whose tenant_id disagrees with the ambient
// tenant. Creates never get a tenant injected silently; the application sets
// tenant_id explicitly and the callback only verifies it.
func (tc *TenantCallback) beforeCreate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil || IsSystem(ctx) {
		return
	}

	ambient := logger.GetTenantID(ctx)
	if ambient == "" {
		return
	}

	field := tc.tenantField(db)
	if field == nil || !db.Statement.ReflectValue.IsValid() {
		return
	}

	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if tc.rowTenantMismatch(db, field, rv.Index(i), ambient) {
				_ = db.AddError(ErrCrossTenantWrite)
				return
			}
		}
	case reflect.Struct:
		if tc.rowTenantMismatch(db, field, rv, ambient) {
			_ = db.AddError(ErrCrossTenantWrite)
		}
	}
}

// addTenantFilter adds tenant filtering to the statement
func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	if IsSystem(ctx) {
		return
	}
	if db.Statement.Unscoped {
		return
	}
	if tc.tenantField(db) == nil {
		// table without a tenant column, e.g. organizations or users
		return
	}
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(ctx)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}
	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// rowTenantMismatch reports whether one row's tenant_id is set and differs
// from the ambient tenant
func (tc *TenantCallback) rowTenantMismatch(db *gorm.DB, field *schema.Field, rv reflect.Value, ambient string) bool {
	rowTenant, zero := field.ValueOf(db.Statement.Context, rv)
	if zero {
		return false
	}
	id, ok := rowTenant.(uuid.UUID)
	return ok && id.String() != ambient
}

// tenantField returns the model's tenant column field, or nil when the model
// has none and scoping does not apply.
func (tc *TenantCallback) tenantField(db *gorm.DB) *schema.Field {
	if db.Statement.Schema == nil {
		return nil
	}
	return db.Statement.Schema.LookUpField(tc.tenantColumn)
}

// hasTenantCondition checks if a tenant_id condition is already present
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.Expr:
		if strings.Contains(e.SQL, tc.tenantColumn) {
			return true
		}
	}
	return false
}
