package sqlite

import (
	"context"
	"testing"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

func TestProductRepository_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	brand := models.NewBrand("Rihla", "RH", "SAR", 0.15)
	brandRepo := NewBrandRepository(db, testLogger())
	if err := brandRepo.Create(ctx, brand); err != nil {
		t.Fatalf("brand Create() failed: %v", err)
	}

	product := models.NewProduct("SKU-001", "Leather Duffel", brand.ID, "bags", 850)
	product.Stock = 10

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if retrieved.SKU != "SKU-001" {
		t.Errorf("SKU = %s, want SKU-001", retrieved.SKU)
	}
	if retrieved.BrandName != "Rihla" {
		t.Errorf("BrandName = %s, want Rihla (joined from brands)", retrieved.BrandName)
	}

	// Duplicate SKU
	dup := models.NewProduct("SKU-001", "Other", brand.ID, "bags", 10)
	err = repo.Create(ctx, dup)
	if !repositories.IsDuplicate(err) {
		t.Errorf("Create() with duplicate SKU: error = %v, want duplicate", err)
	}
}

func TestProductRepository_DecrementStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	product := models.NewProduct("SKU-002", "Travel Kit", "brand-1", "kits", 180)
	product.Stock = 5
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	stock, err := repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("DecrementStock() failed: %v", err)
	}
	if stock != 2 {
		t.Errorf("stock after decrement = %d, want 2", stock)
	}

	// Oversell floors at zero instead of going negative
	stock, err = repo.DecrementStock(ctx, product.ID, 10)
	if err != nil {
		t.Fatalf("DecrementStock() oversell failed: %v", err)
	}
	if stock != 0 {
		t.Errorf("stock after oversell = %d, want 0", stock)
	}

	if _, err := repo.DecrementStock(ctx, product.ID, 0); !repositories.IsValidation(err) {
		t.Errorf("DecrementStock() with zero quantity: error = %v, want validation", err)
	}

	if _, err := repo.DecrementStock(ctx, "missing-id", 1); !repositories.IsNotFound(err) {
		t.Errorf("DecrementStock() on missing product: error = %v, want not found", err)
	}
}

func TestProductRepository_GetLowStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	low := models.NewProduct("SKU-LOW", "Low", "brand-1", "misc", 10)
	low.Stock = 2
	low.LowStockThreshold = 5

	ok := models.NewProduct("SKU-OK", "OK", "brand-1", "misc", 10)
	ok.Stock = 50
	ok.LowStockThreshold = 5

	inactive := models.NewProduct("SKU-OFF", "Off", "brand-1", "misc", 10)
	inactive.Stock = 0
	inactive.Active = false

	for _, p := range []*models.Product{low, ok, inactive} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) failed: %v", p.SKU, err)
		}
	}

	products, err := repo.GetLowStock(ctx)
	if err != nil {
		t.Fatalf("GetLowStock() failed: %v", err)
	}

	if len(products) != 1 || products[0].SKU != "SKU-LOW" {
		t.Errorf("GetLowStock() returned %d products, want only SKU-LOW", len(products))
	}
}
