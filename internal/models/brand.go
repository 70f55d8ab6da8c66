package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Brand represents a retail brand that owns products, employees and orders
type Brand struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Code      string    `json:"code" db:"code" validate:"required,min=2,max=16"`
	Color     *string   `json:"color,omitempty" db:"color"`
	Currency  string    `json:"currency" db:"currency" validate:"required,len=3"`
	VATRate   float64   `json:"vat_rate" db:"vat_rate"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBrand creates a new brand with generated ID and timestamps
func NewBrand(name, code, currency string, vatRate float64) *Brand {
	now := time.Now()
	return &Brand{
		ID:        uuid.New().String(),
		Name:      name,
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Currency:  strings.ToUpper(strings.TrimSpace(currency)),
		VATRate:   vatRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the brand data
func (b *Brand) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("brand ID is required")
	}

	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("brand name is required")
	}

	if strings.TrimSpace(b.Code) == "" {
		return fmt.Errorf("brand code is required")
	}

	if len(b.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", b.Currency)
	}

	if b.VATRate < 0 || b.VATRate > 1 {
		return fmt.Errorf("VAT rate must be between 0 and 1, got %f", b.VATRate)
	}

	return nil
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (b *Brand) UpdateTimestamp() {
	b.UpdatedAt = time.Now()
}
