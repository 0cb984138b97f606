package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/catalog"
)

// CreateProductRequest creates a new product in the caller's catalog
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Cost        decimal.Decimal `json:"cost"`
}

// UpdateProductRequest changes mutable product fields
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// CreateLocationRequest creates a new stock location
type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ProductDTO is the read model for a product
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Active      bool            `json:"active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LocationDTO is the read model for a location
type LocationDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Active  bool      `json:"active"`
}

func toProductDTO(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Active:      p.Active,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toLocationDTO(l *catalog.Location) LocationDTO {
	return LocationDTO{
		ID:      l.ID,
		Name:    l.Name,
		Address: l.Address,
		Active:  l.Active,
	}
}
