package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

type brandService struct {
	brandRepo repositories.BrandRepository
	validator *validator.Validate
}

// NewBrandService creates a new brand service instance
func NewBrandService(brandRepo repositories.BrandRepository) BrandService {
	return &brandService{
		brandRepo: brandRepo,
		validator: validator.New(),
	}
}

func (s *brandService) CreateBrand(ctx context.Context, req *CreateBrandRequest) (*models.Brand, error) {
	if req == nil {
		return nil, fmt.Errorf("create brand request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	brand := models.NewBrand(strings.TrimSpace(req.Name), req.Code, req.Currency, req.VATRate)
	brand.Color = req.Color

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	return brand, nil
}

func (s *brandService) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	if id == "" {
		return nil, fmt.Errorf("brand ID cannot be empty")
	}
	return s.brandRepo.GetByID(ctx, id)
}

func (s *brandService) GetBrandByCode(ctx context.Context, code string) (*models.Brand, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("brand code cannot be empty")
	}
	return s.brandRepo.GetByCode(ctx, code)
}

func (s *brandService) UpdateBrand(ctx context.Context, id string, req *UpdateBrandRequest) (*models.Brand, error) {
	if req == nil {
		return nil, fmt.Errorf("update brand request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		brand.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		brand.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Color != nil {
		brand.Color = req.Color
	}
	if req.Currency != nil {
		brand.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.VATRate != nil {
		brand.VATRate = *req.VATRate
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	return brand, nil
}

func (s *brandService) DeleteBrand(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("brand ID cannot be empty")
	}
	return s.brandRepo.Delete(ctx, id)
}

func (s *brandService) ListBrands(ctx context.Context) ([]*models.Brand, error) {
	return s.brandRepo.List(ctx, nil)
}
