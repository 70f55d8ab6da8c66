package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeBusiness   CustomerType = "business"
	CustomerTypeVIP        CustomerType = "vip"
)

// Customer represents a customer in the system.
//
// Email is not globally unique: multiple customers may share the same email
// and lookups resolve to the first match. TotalOrders, LifetimeValue and
// LastOrderDate are denormalized counters maintained by the order workflow;
// they can lag the true sums if a post-commit update fails.
type Customer struct {
	ID           string       `json:"id" db:"id" validate:"required,uuid"`
	Name         string       `json:"name" db:"name" validate:"required,min=1,max=255"`
	Email        *string      `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	Phone        *string      `json:"phone,omitempty" db:"phone"`
	Address      *string      `json:"address,omitempty" db:"address"`
	CustomerType CustomerType `json:"customer_type" db:"customer_type"`
	IsActive     bool         `json:"is_active" db:"is_active"`
	TotalOrders  int64        `json:"total_orders" db:"total_orders"`
	LifetimeValue float64     `json:"lifetime_value" db:"lifetime_value"`
	LastOrderDate *time.Time  `json:"last_order_date,omitempty" db:"last_order_date"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// NewCustomer creates a new customer with generated ID, zeroed counters and timestamps
func NewCustomer(name string) *Customer {
	now := time.Now()
	return &Customer{
		ID:           uuid.New().String(),
		Name:         name,
		CustomerType: CustomerTypeIndividual,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates the customer data
func (c *Customer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer name is required")
	}

	if c.TotalOrders < 0 {
		return fmt.Errorf("total orders cannot be negative")
	}

	if c.LifetimeValue < 0 {
		return fmt.Errorf("lifetime value cannot be negative")
	}

	return nil
}

// SetEmail normalizes and sets the customer email
func (c *Customer) SetEmail(email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		c.Email = nil
	} else {
		c.Email = &email
	}
}

// SetPhone sets the customer phone
func (c *Customer) SetPhone(phone string) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		c.Phone = nil
	} else {
		c.Phone = &phone
	}
}

// GetEmail returns the customer email or empty string if nil
func (c *Customer) GetEmail() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// GetPhone returns the customer phone or empty string if nil
func (c *Customer) GetPhone() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (c *Customer) UpdateTimestamp() {
	c.UpdatedAt = time.Now()
}
