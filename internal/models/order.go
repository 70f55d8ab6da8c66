package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// forwardTransitions is the linear fulfilment path. Cancelled and refunded are
// reachable from any non-terminal status.
var forwardTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
	OrderStatusDelivered:  OrderStatusCompleted,
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// OrderItem is one product+quantity entry within an order. Name, price and SKU
// are frozen at order time so later product edits never alter historical orders.
type OrderItem struct {
	ProductID   string  `json:"product_id" db:"product_id" validate:"required,uuid"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity" validate:"required,min=1"`
	Price       float64 `json:"price" db:"price" validate:"min=0"`
	SKU         string  `json:"sku,omitempty" db:"sku"`
}

// Validate validates a single line item
func (i *OrderItem) Validate() error {
	if i.ProductID == "" {
		return fmt.Errorf("line item product ID is required")
	}
	if i.Quantity < 1 {
		return fmt.Errorf("line item quantity must be at least 1, got %d", i.Quantity)
	}
	if i.Price < 0 {
		return fmt.Errorf("line item price cannot be negative")
	}
	return nil
}

// Order is the transaction record. Created once; after creation only the
// status and payment status may change.
type Order struct {
	ID            string      `json:"id" db:"id" validate:"required,uuid"`
	OrderNumber   string      `json:"order_number" db:"order_number" validate:"required"`
	CustomerID    *string     `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName  string      `json:"customer_name" db:"customer_name" validate:"required"`
	CustomerEmail *string     `json:"customer_email,omitempty" db:"customer_email"`
	CustomerPhone *string     `json:"customer_phone,omitempty" db:"customer_phone"`
	BrandID       string      `json:"brand_id" db:"brand_id" validate:"required,uuid"`
	BrandName     string      `json:"brand_name" db:"brand_name"`
	Items         []OrderItem `json:"items"`

	Subtotal        float64 `json:"subtotal" db:"subtotal"`
	VATRate         float64 `json:"vat_rate" db:"vat_rate"`
	VATAmount       float64 `json:"vat_amount" db:"vat_amount"`
	ApplyVAT        bool    `json:"apply_vat" db:"apply_vat"`
	ShippingCharges float64 `json:"shipping_charges" db:"shipping_charges"`
	Discount        float64 `json:"discount" db:"discount"`
	Total           float64 `json:"total" db:"total"`
	Currency        string  `json:"currency" db:"currency"`

	Status          OrderStatus   `json:"status" db:"status"`
	PaymentMethod   string        `json:"payment_method" db:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	ShippingAddress *string       `json:"shipping_address,omitempty" db:"shipping_address"`
	Notes           *string       `json:"notes,omitempty" db:"notes"`

	CreatedByUserID      *string `json:"created_by_user_id,omitempty" db:"created_by_user_id"`
	AttributedEmployeeID *string `json:"attributed_employee_id,omitempty" db:"attributed_employee_id"`

	// CreatedAt is set once at creation and never altered; order numbering and
	// revenue-trend bucketing both key on it.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewOrder creates a new order shell with generated ID and timestamps
func NewOrder(brandID, customerName string) *Order {
	now := time.Now()
	return &Order{
		ID:            uuid.New().String(),
		BrandID:       brandID,
		CustomerName:  customerName,
		ApplyVAT:      true,
		Currency:      "SAR",
		Status:        OrderStatusPending,
		PaymentMethod: "Cash",
		PaymentStatus: PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the order data, including the financial invariant
// total = subtotal + vat_amount + shipping - discount.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order ID is required")
	}

	if o.OrderNumber == "" {
		return fmt.Errorf("order number is required")
	}

	if o.CustomerName == "" {
		return fmt.Errorf("customer name is required")
	}

	if o.BrandID == "" {
		return fmt.Errorf("brand ID is required")
	}

	if len(o.Items) == 0 {
		return fmt.Errorf("order must have at least one line item")
	}

	var subtotal float64
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return fmt.Errorf("line item %d: %w", i+1, err)
		}
		subtotal += o.Items[i].Price * float64(o.Items[i].Quantity)
	}

	if abs(o.Subtotal-subtotal) > 0.01 {
		return fmt.Errorf("subtotal does not match sum of line items")
	}

	expectedTotal := o.Subtotal + o.VATAmount + o.ShippingCharges - o.Discount
	if expectedTotal < 0 {
		expectedTotal = 0
	}
	if abs(o.Total-expectedTotal) > 0.01 {
		return fmt.Errorf("total does not match subtotal + VAT + shipping - discount")
	}

	if !ValidOrderStatus(o.Status) {
		return fmt.Errorf("invalid order status: %s", o.Status)
	}

	return nil
}

// IsTerminal reports whether the order status permits no further transitions
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the order may move to the target status
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	if !ValidOrderStatus(target) || o.IsTerminal() || target == o.Status {
		return false
	}

	if target == OrderStatusCancelled || target == OrderStatusRefunded {
		return true
	}

	return forwardTransitions[o.Status] == target
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (o *Order) UpdateTimestamp() {
	o.UpdatedAt = time.Now()
}

// abs returns the absolute value of a float64
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
