package repositories

import (
	"context"
	"time"

	"rihla-backoffice-api/internal/models"
)

// BaseRepository defines common CRUD operations for all repositories
type BaseRepository[T any] interface {
	// Create creates a new entity
	Create(ctx context.Context, entity *T) error

	// GetByID retrieves an entity by its ID
	GetByID(ctx context.Context, id string) (*T, error)

	// Update updates an existing entity
	Update(ctx context.Context, entity *T) error

	// Delete deletes an entity by its ID
	Delete(ctx context.Context, id string) error

	// List retrieves entities with optional filters
	List(ctx context.Context, filters map[string]interface{}) ([]*T, error)

	// Count returns the total number of entities matching the filters
	Count(ctx context.Context, filters map[string]interface{}) (int64, error)

	// Exists checks if an entity with the given ID exists
	Exists(ctx context.Context, id string) (bool, error)
}

// BrandRepository defines operations specific to brand management
type BrandRepository interface {
	BaseRepository[models.Brand]

	// GetByCode retrieves a brand by its short code
	GetByCode(ctx context.Context, code string) (*models.Brand, error)
}

// ProductRepository defines operations specific to product management
type ProductRepository interface {
	BaseRepository[models.Product]

	// Search performs a substring search on product name and SKU
	Search(ctx context.Context, query string, limit int) ([]*models.Product, error)

	// GetBySKU retrieves a product by its SKU
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)

	// GetByBrand retrieves products belonging to a brand
	GetByBrand(ctx context.Context, brandID string) ([]*models.Product, error)

	// GetByCategory retrieves products by category
	GetByCategory(ctx context.Context, category string) ([]*models.Product, error)

	// GetLowStock retrieves active products at or below their low-stock threshold
	GetLowStock(ctx context.Context) ([]*models.Product, error)

	// DecrementStock atomically reduces stock by quantity, flooring at zero.
	// It returns the stock level after the update.
	DecrementStock(ctx context.Context, id string, quantity int) (int, error)
}

// CustomerRepository defines operations specific to customer management
type CustomerRepository interface {
	BaseRepository[models.Customer]

	// Search performs a substring search on customer name, email and phone
	Search(ctx context.Context, query string, limit int) ([]*models.Customer, error)

	// GetByEmail retrieves the oldest customer with the given email.
	// Email is not unique; callers get the first match by creation time.
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)

	// GetByPhone retrieves the oldest customer with the given phone number
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)

	// IncrementOrderStats bumps total_orders, adds amount to lifetime_value
	// and sets last_order_date in a single statement
	IncrementOrderStats(ctx context.Context, id string, amount float64, orderedAt time.Time) error

	// GetTopCustomers retrieves customers ordered by lifetime value
	GetTopCustomers(ctx context.Context, limit int) ([]*models.Customer, error)
}

// EmployeeRepository defines operations specific to employee management
type EmployeeRepository interface {
	BaseRepository[models.Employee]

	// GetByEmail retrieves an employee by email address
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)

	// GetActive retrieves employees with active status
	GetActive(ctx context.Context) ([]*models.Employee, error)

	// CreditAchievement adds amount to the employee's achieved total for the
	// current year, resetting the total first if the stored year is stale.
	// The reset and the credit happen in one statement.
	CreditAchievement(ctx context.Context, id string, amount float64, now time.Time) error
}

// OrderRepository defines operations specific to order management
type OrderRepository interface {
	BaseRepository[models.Order]

	// CreateWithNumber inserts the order and its items in one transaction,
	// assigning the next daily sequence number atomically and decrementing
	// product stock (floored at zero) for every line item in the same
	// transaction. The assigned order number is written back to the entity.
	CreateWithNumber(ctx context.Context, order *models.Order) error

	// GetByNumber retrieves an order by its human-readable order number
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)

	// GetByCustomer retrieves orders for a customer, newest first
	GetByCustomer(ctx context.Context, customerID string) ([]*models.Order, error)

	// GetByBrand retrieves orders for a brand, newest first
	GetByBrand(ctx context.Context, brandID string) ([]*models.Order, error)

	// Search matches orders by order number, customer name or customer email
	Search(ctx context.Context, query string, limit int) ([]*models.Order, error)

	// UpdateStatus sets the order status without touching other fields
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error

	// RevenueSince sums order totals created at or after the given time,
	// excluding cancelled and refunded orders
	RevenueSince(ctx context.Context, since time.Time) (float64, error)

	// RevenueByDay returns per-day revenue buckets for the trailing window,
	// excluding cancelled and refunded orders
	RevenueByDay(ctx context.Context, since time.Time) ([]models.RevenueBucket, error)

	// CountByStatus returns the number of orders per status
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
}

// UserRepository defines operations specific to user account management
type UserRepository interface {
	BaseRepository[models.User]

	// GetByEmail retrieves a user by email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// SetTwoFactorSecret stores the TOTP secret and enabled flag
	SetTwoFactorSecret(ctx context.Context, id, secret string, enabled bool) error

	// UpdateLastLogin stamps the last successful login time
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
