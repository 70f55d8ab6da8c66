package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

type productService struct {
	productRepo repositories.ProductRepository
	brandRepo   repositories.BrandRepository
	validator   *validator.Validate
}

// NewProductService creates a new product service instance
func NewProductService(
	productRepo repositories.ProductRepository,
	brandRepo repositories.BrandRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		brandRepo:   brandRepo,
		validator:   validator.New(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("create product request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	brand, err := s.brandRepo.GetByID(ctx, req.BrandID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("brand %s: %w", req.BrandID, ErrBrandNotFound)
		}
		return nil, fmt.Errorf("brand lookup failed: %w", err)
	}

	product := models.NewProduct(strings.TrimSpace(req.SKU), strings.TrimSpace(req.Name), brand.ID, req.Category, req.UnitPrice)
	product.BrandName = brand.Name
	product.Stock = req.Stock
	product.Currency = brand.Currency
	if req.Currency != nil {
		product.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Description != nil {
		product.SetDescription(*req.Description)
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID cannot be empty")
	}
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("update product request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil {
		product.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.SetDescription(*req.Description)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product ID cannot be empty")
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, filters *ProductFilters) ([]*models.Product, error) {
	repoFilters := make(map[string]interface{})
	if filters != nil {
		if filters.BrandID != "" {
			repoFilters["brand_id"] = filters.BrandID
		}
		if filters.Category != "" {
			repoFilters["category"] = filters.Category
		}
		if filters.Active != nil {
			repoFilters["active"] = *filters.Active
		}
	}
	return s.productRepo.List(ctx, repoFilters)
}

func (s *productService) SearchProducts(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	return s.productRepo.Search(ctx, query, limit)
}

func (s *productService) GetLowStockProducts(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStock applies a manual stock adjustment. Negative deltas go through
// the atomic decrement so they floor at zero like order decrements do.
func (s *productService) AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	if delta == 0 {
		return s.productRepo.GetByID(ctx, id)
	}

	if delta < 0 {
		if _, err := s.productRepo.DecrementStock(ctx, id, -delta); err != nil {
			return nil, err
		}
		return s.productRepo.GetByID(ctx, id)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Stock += delta
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return product, nil
}
