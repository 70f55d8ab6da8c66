// Package pricing implements the money and VAT arithmetic for orders.
// All functions are pure; amounts are kept at full float64 precision and only
// rounded for presentation.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidQuantity is returned when a line item quantity is below 1
var ErrInvalidQuantity = errors.New("invalid quantity")

// LineInput is the price and quantity of one line item
type LineInput struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the result of a pricing computation.
//
// NegativeClamped is set when the discount exceeded subtotal + VAT + shipping
// and the total was clamped to zero.
type Totals struct {
	Subtotal        float64 `json:"subtotal"`
	VATAmount       float64 `json:"vat_amount"`
	Total           float64 `json:"total"`
	NegativeClamped bool    `json:"negative_clamped,omitempty"`
}

// Compute calculates subtotal, VAT amount and grand total for a set of line
// items. vatRate is a fraction (0.15 for 15%). No intermediate rounding is
// applied; stored totals keep full precision so report sums do not compound
// rounding errors.
func Compute(items []LineInput, vatRate float64, applyVAT bool, shipping, discount float64) (Totals, error) {
	var t Totals

	for i, item := range items {
		if item.Quantity < 1 {
			return Totals{}, fmt.Errorf("line item %d: quantity %d: %w", i+1, item.Quantity, ErrInvalidQuantity)
		}
		t.Subtotal += item.UnitPrice * float64(item.Quantity)
	}

	if applyVAT {
		t.VATAmount = t.Subtotal * vatRate
	}

	t.Total = t.Subtotal + t.VATAmount + shipping - discount
	if t.Total < 0 {
		t.Total = 0
		t.NegativeClamped = true
	}

	return t, nil
}

// RoundMoney rounds a monetary amount to 2 decimal places for presentation
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// RateTable maps an upper-case 3-letter currency code to its default VAT
// rate. It is a business-rule lookup, not a per-country tax authority, and is
// meant to be loaded from configuration rather than hardcoded at call sites.
type RateTable struct {
	rates    map[string]float64
	fallback float64
}

// DefaultRateTable returns the rates observed in production: 15% for SAR and
// 18% for every other currency (USD, AED, EUR).
func DefaultRateTable() *RateTable {
	return NewRateTable(map[string]float64{"SAR": 0.15}, 0.18)
}

// NewRateTable builds a rate table from explicit per-currency rates and a
// fallback for currencies not listed.
func NewRateTable(rates map[string]float64, fallback float64) *RateTable {
	normalized := make(map[string]float64, len(rates))
	for currency, rate := range rates {
		normalized[strings.ToUpper(strings.TrimSpace(currency))] = rate
	}
	return &RateTable{rates: normalized, fallback: fallback}
}

// Rate returns the default VAT rate for a currency
func (t *RateTable) Rate(currency string) float64 {
	if rate, ok := t.rates[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return rate
	}
	return t.fallback
}
