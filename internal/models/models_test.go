package models

import (
	"testing"
	"time"
)

func validOrder() *Order {
	order := NewOrder("brand-1", "Sara Al-Amri")
	order.OrderNumber = "ORD-260828-0001"
	order.Items = []OrderItem{
		{ProductID: "prod-1", ProductName: "Duffel Bag", Quantity: 2, Price: 850},
		{ProductID: "prod-2", ProductName: "Travel Kit", Quantity: 1, Price: 180},
	}
	order.Subtotal = 1880
	order.VATRate = 0.15
	order.VATAmount = 282
	order.Total = 2162
	return order
}

func TestOrderValidate(t *testing.T) {
	order := validOrder()
	if err := order.Validate(); err != nil {
		t.Fatalf("Validate() on a consistent order: %v", err)
	}
}

func TestOrderValidate_TotalMismatch(t *testing.T) {
	order := validOrder()
	order.Total = 2000
	if err := order.Validate(); err == nil {
		t.Error("expected error when total disagrees with subtotal + VAT + shipping - discount")
	}
}

func TestOrderValidate_SubtotalMismatch(t *testing.T) {
	order := validOrder()
	order.Subtotal = 1500
	order.Total = 1782
	if err := order.Validate(); err == nil {
		t.Error("expected error when subtotal disagrees with line items")
	}
}

func TestOrderValidate_ClampedTotal(t *testing.T) {
	// A discount larger than everything else clamps the total at zero; the
	// invariant must accept the clamped value.
	order := validOrder()
	order.Discount = 5000
	order.Total = 0
	if err := order.Validate(); err != nil {
		t.Errorf("Validate() on clamped-to-zero total: %v", err)
	}
}

func TestOrderValidate_NoItems(t *testing.T) {
	order := validOrder()
	order.Items = nil
	order.Subtotal = 0
	order.VATAmount = 0
	order.Total = 0
	if err := order.Validate(); err == nil {
		t.Error("expected error for order without line items")
	}
}

func TestOrderValidate_BadQuantity(t *testing.T) {
	order := validOrder()
	order.Items[0].Quantity = 0
	if err := order.Validate(); err == nil {
		t.Error("expected error for line item quantity below 1")
	}
}

func TestOrderCanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusCompleted, true},

		// forward path cannot be skipped
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusCompleted, false},

		// no going backwards
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusPending, false},

		// cancel/refund allowed from any non-terminal status
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusRefunded, true},

		// terminal statuses permit nothing
		{OrderStatusCompleted, OrderStatusRefunded, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusCancelled, false},

		// self-transition and unknown target
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusPending, OrderStatus("archived"), false},
	}

	for _, tt := range tests {
		order := &Order{Status: tt.from}
		if got := order.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEmployeeResetYearlyTarget(t *testing.T) {
	emp := NewEmployee("Omar", "omar@rihla.example", "Sales Lead", "Sales", "brand-1")
	emp.Achieved = 95000
	emp.LastResetYear = 2025

	emp.ResetYearlyTarget(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	if emp.Achieved != 0 {
		t.Errorf("Achieved = %v after year rollover, want 0", emp.Achieved)
	}
	if emp.LastResetYear != 2026 {
		t.Errorf("LastResetYear = %d, want 2026", emp.LastResetYear)
	}

	// same year is a no-op
	emp.Achieved = 500
	emp.ResetYearlyTarget(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	if emp.Achieved != 500 {
		t.Errorf("Achieved = %v after same-year reset, want 500", emp.Achieved)
	}
}

func TestEmployeeAchievementRate(t *testing.T) {
	emp := &Employee{Target: 100000, Achieved: 25000}
	if rate := emp.AchievementRate(); rate != 25 {
		t.Errorf("AchievementRate() = %v, want 25", rate)
	}

	emp.Target = 0
	if rate := emp.AchievementRate(); rate != 0 {
		t.Errorf("AchievementRate() with zero target = %v, want 0", rate)
	}
}

func TestUserAdminImpliesAllPermissions(t *testing.T) {
	user := NewUser("admin@rihla.example", "Admin", RoleAdmin)
	if user.Permissions != AllPermissions() {
		t.Error("admin user should carry every permission after creation")
	}

	// demote-then-promote still ends with full permissions
	user.Role = RoleUser
	user.Permissions = Permissions{}
	user.Role = RoleAdmin
	user.ApplyRolePermissions()
	if !user.HasPermission("settings") || !user.HasPermission("can_delete") {
		t.Error("ApplyRolePermissions should restore full permissions for admins")
	}
}

func TestUserHasPermission(t *testing.T) {
	user := NewUser("clerk@rihla.example", "Clerk", RoleUser)
	if !user.HasPermission("orders") {
		t.Error("default permissions should include orders")
	}
	if user.HasPermission("settings") {
		t.Error("default permissions should not include settings")
	}
	if user.HasPermission("nonexistent") {
		t.Error("unknown permission names must never pass")
	}
}

func TestBrandValidate(t *testing.T) {
	brand := NewBrand("Rihla", "rhl", "sar", 0.15)
	if brand.Code != "RHL" || brand.Currency != "SAR" {
		t.Errorf("NewBrand should uppercase code and currency, got %s/%s", brand.Code, brand.Currency)
	}
	if err := brand.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}

	brand.VATRate = 1.5
	if err := brand.Validate(); err == nil {
		t.Error("expected error for VAT rate above 1")
	}

	brand.VATRate = 0.15
	brand.Currency = "SAUDI"
	if err := brand.Validate(); err == nil {
		t.Error("expected error for currency that is not 3 letters")
	}
}

func TestProductIsLowStock(t *testing.T) {
	product := NewProduct("RHL-001", "Duffel Bag", "brand-1", "luggage", 850)
	product.Stock = 6
	if product.IsLowStock() {
		t.Error("stock above threshold should not be low")
	}
	product.Stock = 5
	if !product.IsLowStock() {
		t.Error("stock at threshold should be low")
	}
	product.Stock = 0
	if !product.IsLowStock() {
		t.Error("zero stock should be low")
	}
}

func TestCustomerSetEmail(t *testing.T) {
	customer := NewCustomer("Sara")
	customer.SetEmail("  Sara@Example.COM ")
	if customer.GetEmail() != "sara@example.com" {
		t.Errorf("SetEmail should normalize, got %q", customer.GetEmail())
	}

	customer.SetEmail("")
	if customer.Email != nil {
		t.Error("empty email should clear the field")
	}
}
