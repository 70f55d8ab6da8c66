package services

import (
	"context"
	"time"

	"rihla-backoffice-api/internal/models"
)

// BrandService defines the interface for brand business logic operations
type BrandService interface {
	CreateBrand(ctx context.Context, req *CreateBrandRequest) (*models.Brand, error)
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	GetBrandByCode(ctx context.Context, code string) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id string, req *UpdateBrandRequest) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	ListBrands(ctx context.Context) ([]*models.Brand, error)
}

// ProductService defines the interface for product business logic operations
type ProductService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, filters *ProductFilters) ([]*models.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]*models.Product, error)
	GetLowStockProducts(ctx context.Context) ([]*models.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error)
}

// CustomerService defines the interface for customer business logic operations
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error)
	GetTopCustomers(ctx context.Context, limit int) ([]*models.Customer, error)
	GetCustomerWithOrders(ctx context.Context, id string) (*CustomerWithOrders, error)

	// Resolve finds an existing customer by email, then phone, or creates a
	// new one. Placeholder contact values are treated as absent. When
	// neither email nor phone is usable it returns (nil, nil): the order
	// proceeds as a walk-in with no linked customer.
	Resolve(ctx context.Context, contact CustomerContact) (*models.Customer, error)
}

// EmployeeService defines the interface for employee business logic operations
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, req *UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, filters *EmployeeFilters) ([]*models.Employee, error)
	GetEmployeeStats(ctx context.Context) (*EmployeeStats, error)
}

// OrderService defines the interface for the order workflow
type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResult, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListOrders(ctx context.Context, filters *OrderFilters) ([]*models.Order, error)
	SearchOrders(ctx context.Context, query string, limit int) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// UserService defines the interface for user account management
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
	ChangePassword(ctx context.Context, id, newPassword string) error
}

// AuthService defines the interface for login and two-factor flows
type AuthService interface {
	// Login verifies credentials. Depending on the account's two-factor
	// state the result carries a token, a 2FA challenge, or setup data.
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)

	// VerifyTOTP completes a login that was answered with a 2FA challenge
	VerifyTOTP(ctx context.Context, req *VerifyTOTPRequest) (*LoginResult, error)

	// SetupTOTP generates and stores a new TOTP secret for the user and
	// returns the otpauth provisioning URL.
	SetupTOTP(ctx context.Context, userID string) (*TOTPSetup, error)

	// ConfirmTOTP verifies the first code against the pending secret and
	// enables two-factor on the account.
	ConfirmTOTP(ctx context.Context, userID, code string) error
}

// DashboardService defines the interface for aggregate reporting
type DashboardService interface {
	GetMetrics(ctx context.Context) (*models.DashboardMetrics, error)
	GetRevenueTrend(ctx context.Context, days int) ([]models.RevenueBucket, error)
}

// Request and response types for service operations

// Brand service types
type CreateBrandRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Code     string  `json:"code" validate:"required,min=2,max=16"`
	Color    *string `json:"color,omitempty"`
	Currency string  `json:"currency" validate:"required,len=3"`
	VATRate  float64 `json:"vat_rate" validate:"min=0,max=1"`
}

type UpdateBrandRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Code     *string  `json:"code,omitempty" validate:"omitempty,min=2,max=16"`
	Color    *string  `json:"color,omitempty"`
	Currency *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	VATRate  *float64 `json:"vat_rate,omitempty" validate:"omitempty,min=0,max=1"`
}

// Product service types
type CreateProductRequest struct {
	SKU               string  `json:"sku" validate:"required,min=1,max=64"`
	Name              string  `json:"name" validate:"required,min=1,max=255"`
	Description       *string `json:"description,omitempty"`
	BrandID           string  `json:"brand_id" validate:"required,uuid"`
	Category          string  `json:"category" validate:"required"`
	UnitPrice         float64 `json:"unit_price" validate:"min=0"`
	Currency          *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Stock             int     `json:"stock" validate:"min=0"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	SKU               *string  `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description       *string  `json:"description,omitempty"`
	Category          *string  `json:"category,omitempty"`
	UnitPrice         *float64 `json:"unit_price,omitempty" validate:"omitempty,min=0"`
	Stock             *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	LowStockThreshold *int     `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	Active            *bool    `json:"active,omitempty"`
}

type ProductFilters struct {
	BrandID  string `form:"brand_id"`
	Category string `form:"category"`
	Active   *bool  `form:"active"`
}

// Customer service types
type CreateCustomerRequest struct {
	Name         string               `json:"name" validate:"required,min=1,max=255"`
	Email        *string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string              `json:"phone,omitempty"`
	Address      *string              `json:"address,omitempty"`
	CustomerType *models.CustomerType `json:"customer_type,omitempty" validate:"omitempty,oneof=individual business vip"`
}

type UpdateCustomerRequest struct {
	Name         *string              `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email        *string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string              `json:"phone,omitempty"`
	Address      *string              `json:"address,omitempty"`
	CustomerType *models.CustomerType `json:"customer_type,omitempty" validate:"omitempty,oneof=individual business vip"`
	IsActive     *bool                `json:"is_active,omitempty"`
}

// CustomerContact is the raw contact block submitted with an order. Values
// may be placeholders ("-", "n/a", "none") that sanitization discards.
type CustomerContact struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CustomerWithOrders pairs a customer with their order history
type CustomerWithOrders struct {
	Customer *models.Customer `json:"customer"`
	Orders   []*models.Order  `json:"orders"`
}

// Employee service types
type CreateEmployeeRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=255"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      *string    `json:"phone,omitempty"`
	Position   string     `json:"position" validate:"required"`
	Department string     `json:"department" validate:"required"`
	BrandID    string     `json:"brand_id" validate:"required,uuid"`
	Salary     float64    `json:"salary" validate:"min=0"`
	Target     float64    `json:"target" validate:"min=0"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
}

type UpdateEmployeeRequest struct {
	Name       *string                `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email      *string                `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string                `json:"phone,omitempty"`
	Position   *string                `json:"position,omitempty"`
	Department *string                `json:"department,omitempty"`
	Salary     *float64               `json:"salary,omitempty" validate:"omitempty,min=0"`
	Bonus      *float64               `json:"bonus,omitempty" validate:"omitempty,min=0"`
	Target     *float64               `json:"target,omitempty" validate:"omitempty,min=0"`
	Status     *models.EmployeeStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave terminated"`
}

type EmployeeFilters struct {
	BrandID    string `form:"brand_id"`
	Department string `form:"department"`
	Status     string `form:"status"`
}

// EmployeeStats summarizes target attainment across the workforce
type EmployeeStats struct {
	TotalEmployees  int64   `json:"total_employees"`
	ActiveEmployees int64   `json:"active_employees"`
	TotalTarget     float64 `json:"total_target"`
	TotalAchieved   float64 `json:"total_achieved"`
	AverageRate     float64 `json:"average_rate"`
}

// Order service types
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,min=1,max=255"`
	CustomerEmail   *string            `json:"customer_email,omitempty"`
	CustomerPhone   *string            `json:"customer_phone,omitempty"`
	CustomerAddress *string            `json:"customer_address,omitempty"`
	BrandID         string             `json:"brand_id" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Currency        *string            `json:"currency,omitempty" validate:"omitempty,len=3"`
	ApplyVAT        *bool              `json:"apply_vat,omitempty"`
	VATRate         *float64           `json:"vat_rate,omitempty" validate:"omitempty,min=0,max=1"`
	ShippingCharges float64            `json:"shipping_charges" validate:"min=0"`
	Discount        float64            `json:"discount" validate:"min=0"`
	PaymentMethod   *string            `json:"payment_method,omitempty"`
	ShippingAddress *string            `json:"shipping_address,omitempty"`
	Notes           *string            `json:"notes,omitempty"`

	AttributedEmployeeID *string `json:"attributed_employee_id,omitempty"`
	CreatedByUserID      *string `json:"-"`
}

// OrderResult is the outcome of a successful order creation. SkippedItems
// lists product IDs that were requested but did not resolve; each skip is
// logged rather than failing the whole order.
type OrderResult struct {
	Order        *models.Order `json:"order"`
	SkippedItems []string      `json:"skipped_items,omitempty"`
}

type OrderFilters struct {
	BrandID    string `form:"brand_id"`
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
}

// User service types
type CreateUserRequest struct {
	Email       string              `json:"email" validate:"required,email"`
	Password    string              `json:"password" validate:"required,min=8"`
	FullName    string              `json:"full_name" validate:"required,min=1,max=255"`
	Role        models.UserRole     `json:"role" validate:"required,oneof=admin manager user"`
	EmployeeID  *string             `json:"employee_id,omitempty"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

type UpdateUserRequest struct {
	Email       *string             `json:"email,omitempty" validate:"omitempty,email"`
	FullName    *string             `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Role        *models.UserRole    `json:"role,omitempty" validate:"omitempty,oneof=admin manager user"`
	EmployeeID  *string             `json:"employee_id,omitempty"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
	IsActive    *bool               `json:"is_active,omitempty"`
}

// Auth service types
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyTOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// LoginState tells the client what to do next after a login attempt
type LoginState string

const (
	// LoginStateOK means credentials and (if enabled) 2FA both passed
	LoginStateOK LoginState = "ok"
	// LoginStateTOTPRequired means credentials passed and a one-time code
	// must be submitted via VerifyTOTP
	LoginStateTOTPRequired LoginState = "2fa_required"
	// LoginStateTOTPSetup means credentials passed but the account has no
	// confirmed 2FA secret yet; Setup holds provisioning data
	LoginStateTOTPSetup LoginState = "setup_2fa"
)

type LoginResult struct {
	State LoginState   `json:"state"`
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user,omitempty"`
	Setup *TOTPSetup   `json:"setup,omitempty"`
}

// TOTPSetup carries provisioning data for an authenticator app
type TOTPSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}
