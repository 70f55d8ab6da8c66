package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole represents a dashboard user role
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

// Permissions is the named capability set attached to a user
type Permissions struct {
	Dashboard bool `json:"dashboard" db:"perm_dashboard"`
	Orders    bool `json:"orders" db:"perm_orders"`
	Inventory bool `json:"inventory" db:"perm_inventory"`
	Customers bool `json:"customers" db:"perm_customers"`
	Analytics bool `json:"analytics" db:"perm_analytics"`
	Settings  bool `json:"settings" db:"perm_settings"`
	CanCreate bool `json:"can_create" db:"perm_can_create"`
	CanEdit   bool `json:"can_edit" db:"perm_can_edit"`
	CanDelete bool `json:"can_delete" db:"perm_can_delete"`
}

// AllPermissions returns a permission set with every capability enabled
func AllPermissions() Permissions {
	return Permissions{
		Dashboard: true,
		Orders:    true,
		Inventory: true,
		Customers: true,
		Analytics: true,
		Settings:  true,
		CanCreate: true,
		CanEdit:   true,
		CanDelete: true,
	}
}

// DefaultPermissions returns the permission set for a newly created user
func DefaultPermissions() Permissions {
	return Permissions{
		Dashboard: true,
		Orders:    true,
		Inventory: true,
		Customers: true,
		CanCreate: true,
	}
}

// User represents a dashboard user account. Users are created by an admin,
// never self-registered.
type User struct {
	ID               string      `json:"id" db:"id" validate:"required,uuid"`
	Email            string      `json:"email" db:"email" validate:"required,email"`
	PasswordHash     string      `json:"-" db:"password_hash"`
	FullName         string      `json:"full_name" db:"full_name" validate:"required"`
	Role             UserRole    `json:"role" db:"role" validate:"required,oneof=admin manager user"`
	EmployeeID       *string     `json:"employee_id,omitempty" db:"employee_id"`
	Permissions      Permissions `json:"permissions"`
	TwoFactorSecret  *string     `json:"-" db:"two_factor_secret"`
	TwoFactorEnabled bool        `json:"two_factor_enabled" db:"two_factor_enabled"`
	LastLogin        *time.Time  `json:"last_login,omitempty" db:"last_login"`
	IsActive         bool        `json:"is_active" db:"is_active"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new user with generated ID and default permissions
func NewUser(email, fullName string, role UserRole) *User {
	now := time.Now()
	u := &User{
		ID:          uuid.New().String(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		FullName:    fullName,
		Role:        role,
		Permissions: DefaultPermissions(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	u.ApplyRolePermissions()
	return u
}

// Validate validates the user data
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}

	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}

	if strings.TrimSpace(u.FullName) == "" {
		return fmt.Errorf("user full name is required")
	}

	switch u.Role {
	case RoleAdmin, RoleManager, RoleUser:
	default:
		return fmt.Errorf("invalid user role: %s", u.Role)
	}

	return nil
}

// ApplyRolePermissions enforces that the admin role always carries every
// permission. Must be invoked on every save path.
func (u *User) ApplyRolePermissions() {
	if u.Role == RoleAdmin {
		u.Permissions = AllPermissions()
	}
}

// HasPermission reports whether the user holds the named capability
func (u *User) HasPermission(name string) bool {
	switch name {
	case "dashboard":
		return u.Permissions.Dashboard
	case "orders":
		return u.Permissions.Orders
	case "inventory":
		return u.Permissions.Inventory
	case "customers":
		return u.Permissions.Customers
	case "analytics":
		return u.Permissions.Analytics
	case "settings":
		return u.Permissions.Settings
	case "can_create":
		return u.Permissions.CanCreate
	case "can_edit":
		return u.Permissions.CanEdit
	case "can_delete":
		return u.Permissions.CanDelete
	}
	return false
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (u *User) UpdateTimestamp() {
	u.UpdatedAt = time.Now()
}
