package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/catalog"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/cache"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

const productCacheTTL = 5 * time.Minute

// ProductService manages the tenant's product catalog. Single-product reads
// go through the cache; every write invalidates the cached entry.
type ProductService struct {
	productRepo catalog.ProductRepository
	cache       cache.ProductCache
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, productCache cache.ProductCache, log *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      log,
	}
}

// Create adds a product to the caller's catalog. SKUs are unique within the
// tenant only.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)
	if tenantID == uuid.Nil {
		return nil, tenant.ErrTenantIDRequired
	}

	taken, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.SKU, req.Price)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := product.UpdateCost(req.Cost); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	dto := toProductDTO(product)
	return &dto, nil
}

// Get returns one product, served from cache when possible
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	tenantID := tenant.CurrentTenant(ctx)

	if payload, hit, err := s.cache.Get(ctx, tenantID, id); err == nil && hit {
		var dto ProductDTO
		if err := json.Unmarshal(payload, &dto); err == nil {
			return &dto, nil
		}
		// corrupt entry, fall through to the database
		_ = s.cache.Invalidate(ctx, tenantID, id)
	} else if err != nil {
		s.logger.Warn("product cache read failed", zap.Error(err))
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(product)
	if payload, err := json.Marshal(dto); err == nil {
		if err := s.cache.Set(ctx, tenantID, id, payload, productCacheTTL); err != nil {
			s.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return &dto, nil
}

// Update changes mutable product fields and invalidates the cache
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if err := product.UpdatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Cost != nil {
		if err := product.UpdateCost(*req.Cost); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, product.TenantID, product.ID); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// List lists products of the current tenant
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductDTO, int64, error) {
	products, count, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i]))
	}
	return dtos, count, nil
}
