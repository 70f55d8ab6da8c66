package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product represents a sellable product owned by a brand
type Product struct {
	ID                string    `json:"id" db:"id" validate:"required,uuid"`
	SKU               string    `json:"sku" db:"sku" validate:"required,min=1,max=64"`
	Name              string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description       *string   `json:"description,omitempty" db:"description"`
	BrandID           string    `json:"brand_id" db:"brand_id" validate:"required,uuid"`
	BrandName         string    `json:"brand_name,omitempty" db:"brand_name"`
	Category          string    `json:"category" db:"category" validate:"required"`
	UnitPrice         float64   `json:"unit_price" db:"unit_price" validate:"required,min=0"`
	Currency          string    `json:"currency" db:"currency"`
	Stock             int       `json:"stock" db:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	Active            bool      `json:"active" db:"active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a new product with generated ID and timestamps
func NewProduct(sku, name, brandID, category string, unitPrice float64) *Product {
	now := time.Now()
	return &Product{
		ID:                uuid.New().String(),
		SKU:               sku,
		Name:              name,
		BrandID:           brandID,
		Category:          category,
		UnitPrice:         unitPrice,
		LowStockThreshold: 5,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate validates the product data
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}

	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("product SKU is required")
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if len(p.Name) > 255 {
		return fmt.Errorf("product name cannot exceed 255 characters")
	}

	if p.BrandID == "" {
		return fmt.Errorf("product brand ID is required")
	}

	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("product category is required")
	}

	if p.UnitPrice < 0 {
		return fmt.Errorf("unit price cannot be negative")
	}

	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}

	return nil
}

// IsLowStock returns true if the stock is at or below the low-stock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (p *Product) UpdateTimestamp() {
	p.UpdatedAt = time.Now()
}

// SetDescription sets the product description
func (p *Product) SetDescription(description string) {
	if strings.TrimSpace(description) == "" {
		p.Description = nil
	} else {
		p.Description = &description
	}
}
