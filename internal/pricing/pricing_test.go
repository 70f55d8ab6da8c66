package pricing

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineInput
		vatRate  float64
		applyVAT bool
		shipping float64
		discount float64
		want     Totals
	}{
		{
			name: "two items with 15% VAT",
			items: []LineInput{
				{UnitPrice: 850, Quantity: 2},
				{UnitPrice: 180, Quantity: 1},
			},
			vatRate:  0.15,
			applyVAT: true,
			want:     Totals{Subtotal: 1880, VATAmount: 282, Total: 2162},
		},
		{
			name:     "VAT disabled",
			items:    []LineInput{{UnitPrice: 100, Quantity: 3}},
			vatRate:  0.15,
			applyVAT: false,
			want:     Totals{Subtotal: 300, VATAmount: 0, Total: 300},
		},
		{
			name:     "shipping and discount",
			items:    []LineInput{{UnitPrice: 50, Quantity: 2}},
			vatRate:  0.18,
			applyVAT: true,
			shipping: 25,
			discount: 10,
			want:     Totals{Subtotal: 100, VATAmount: 18, Total: 133},
		},
		{
			name:     "discount exceeds total clamps to zero",
			items:    []LineInput{{UnitPrice: 10, Quantity: 1}},
			vatRate:  0.15,
			applyVAT: true,
			discount: 500,
			want:     Totals{Subtotal: 10, VATAmount: 1.5, Total: 0, NegativeClamped: true},
		},
		{
			name:     "no items",
			items:    nil,
			vatRate:  0.15,
			applyVAT: true,
			want:     Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.items, tt.vatRate, tt.applyVAT, tt.shipping, tt.discount)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}

			if !almostEqual(got.Subtotal, tt.want.Subtotal) {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.want.Subtotal)
			}
			if !almostEqual(got.VATAmount, tt.want.VATAmount) {
				t.Errorf("VATAmount = %v, want %v", got.VATAmount, tt.want.VATAmount)
			}
			if !almostEqual(got.Total, tt.want.Total) {
				t.Errorf("Total = %v, want %v", got.Total, tt.want.Total)
			}
			if got.NegativeClamped != tt.want.NegativeClamped {
				t.Errorf("NegativeClamped = %v, want %v", got.NegativeClamped, tt.want.NegativeClamped)
			}
		})
	}
}

func TestComputeInvariant(t *testing.T) {
	items := []LineInput{
		{UnitPrice: 12.37, Quantity: 3},
		{UnitPrice: 99.99, Quantity: 7},
		{UnitPrice: 0.01, Quantity: 1},
	}

	got, err := Compute(items, 0.18, true, 14.5, 3.25)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	if !almostEqual(got.Subtotal, subtotal) {
		t.Errorf("Subtotal = %v, want sum of line items %v", got.Subtotal, subtotal)
	}

	expected := got.Subtotal + got.VATAmount + 14.5 - 3.25
	if !almostEqual(got.Total, expected) {
		t.Errorf("Total = %v, want subtotal+vat+shipping-discount = %v", got.Total, expected)
	}
}

func TestComputeInvalidQuantity(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		_, err := Compute([]LineInput{{UnitPrice: 10, Quantity: qty}}, 0.15, true, 0, 0)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Compute() with quantity %d: error = %v, want ErrInvalidQuantity", qty, err)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{282.0, 282.0},
		{1.005, 1.0}, // 1.005 is actually 1.00499... in binary
		{10.555, 10.56},
		{0.1 + 0.2, 0.3},
	}

	for _, tt := range tests {
		if got := RoundMoney(tt.in); !almostEqual(got, tt.want) {
			t.Errorf("RoundMoney(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRateTable(t *testing.T) {
	table := DefaultRateTable()

	if got := table.Rate("SAR"); got != 0.15 {
		t.Errorf("Rate(SAR) = %v, want 0.15", got)
	}
	if got := table.Rate("sar"); got != 0.15 {
		t.Errorf("Rate(sar) = %v, want 0.15 (case insensitive)", got)
	}
	for _, currency := range []string{"USD", "AED", "EUR", "GBP"} {
		if got := table.Rate(currency); got != 0.18 {
			t.Errorf("Rate(%s) = %v, want fallback 0.18", currency, got)
		}
	}

	custom := NewRateTable(map[string]float64{"USD": 0.07}, 0.2)
	if got := custom.Rate("USD"); got != 0.07 {
		t.Errorf("custom Rate(USD) = %v, want 0.07", got)
	}
	if got := custom.Rate("EUR"); got != 0.2 {
		t.Errorf("custom Rate(EUR) = %v, want fallback 0.2", got)
	}
}
