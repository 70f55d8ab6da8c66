package sqlite

import (
	"context"
	"database/sql"
	"time"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CustomerRepository implements the CustomerRepository interface for SQLite
type CustomerRepository struct {
	*BaseRepository[models.Customer]
}

// NewCustomerRepository creates a new SQLite customer repository
func NewCustomerRepository(db *sql.DB, logger *logrus.Logger) repositories.CustomerRepository {
	return &CustomerRepository{
		BaseRepository: NewBaseRepository[models.Customer](db, "customers", logger),
	}
}

const customerColumns = `
	id, name, email, phone, address, customer_type, is_active,
	total_orders, lifetime_value, last_order_date, created_at, updated_at`

func scanCustomer(scanner interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	customer := &models.Customer{}
	err := scanner.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.CustomerType,
		&customer.IsActive,
		&customer.TotalOrders,
		&customer.LifetimeValue,
		&customer.LastOrderDate,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *CustomerRepository) scanCustomers(rows *sql.Rows, operation string) ([]*models.Customer, error) {
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "customer", "", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "customer", "", err)
	}

	return customers, nil
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", customer.ID, err)
	}

	query := `
		INSERT INTO customers (
			id, name, email, phone, address, customer_type, is_active,
			total_orders, lifetime_value, last_order_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.CustomerType,
		customer.IsActive,
		customer.TotalOrders,
		customer.LifetimeValue,
		customer.LastOrderDate,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("customer", "id", customer.ID)
		}
		return err
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := "SELECT " + customerColumns + " FROM customers WHERE id = ?"
	row := r.executeQueryRow(ctx, "get_by_id", query, id)

	customer, err := scanCustomer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("customer", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "customer", id, err)
	}

	return customer, nil
}

// GetByEmail retrieves the oldest customer with the given email. Email is not
// unique across customers, so ordering by created_at makes repeated lookups
// deterministic.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := "SELECT " + customerColumns + ` FROM customers
		WHERE email = ? ORDER BY created_at ASC LIMIT 1`
	row := r.executeQueryRow(ctx, "get_by_email", query, email)

	customer, err := scanCustomer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("customer", email)
		}
		return nil, repositories.NewRepositoryError("get_by_email", "customer", email, err)
	}

	return customer, nil
}

// GetByPhone retrieves the oldest customer with the given phone number
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	query := "SELECT " + customerColumns + ` FROM customers
		WHERE phone = ? ORDER BY created_at ASC LIMIT 1`
	row := r.executeQueryRow(ctx, "get_by_phone", query, phone)

	customer, err := scanCustomer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("customer", phone)
		}
		return nil, repositories.NewRepositoryError("get_by_phone", "customer", phone, err)
	}

	return customer, nil
}

// Update updates an existing customer. The denormalized order counters are
// written as-is; the order workflow mutates them via IncrementOrderStats.
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", customer.ID, err)
	}

	customer.UpdateTimestamp()

	query := `
		UPDATE customers
		SET name = ?, email = ?, phone = ?, address = ?, customer_type = ?,
			is_active = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.CustomerType,
		customer.IsActive,
		customer.UpdatedAt,
		customer.ID,
	)

	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", customer.ID)
}

// Delete deletes a customer by ID
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves customers with optional filters
func (r *CustomerRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}

	return r.scanCustomers(rows, "list")
}

// Count returns the total number of customers matching the filters
func (r *CustomerRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM customers"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}

	row := r.executeQueryRow(ctx, "count", query, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "customer", "", err)
	}

	return count, nil
}

// Search performs a substring search on customer name, email and phone
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	if limit <= 0 {
		limit = 50
	}

	sqlQuery := "SELECT " + customerColumns + ` FROM customers
		WHERE name LIKE ? OR email LIKE ? OR phone LIKE ?
		ORDER BY name ASC
		LIMIT ?`

	pattern := "%" + query + "%"
	rows, err := r.executeQuery(ctx, "search", sqlQuery, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}

	return r.scanCustomers(rows, "search")
}

// IncrementOrderStats bumps total_orders, adds amount to lifetime_value and
// sets last_order_date. One statement so concurrent orders never lose an
// increment.
func (r *CustomerRepository) IncrementOrderStats(ctx context.Context, id string, amount float64, orderedAt time.Time) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	query := `
		UPDATE customers
		SET total_orders = total_orders + 1,
			lifetime_value = lifetime_value + ?,
			last_order_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.executeExec(ctx, "increment_order_stats", query, amount, orderedAt, id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "increment_order_stats", id)
}

// GetTopCustomers retrieves customers ordered by lifetime value
func (r *CustomerRepository) GetTopCustomers(ctx context.Context, limit int) ([]*models.Customer, error) {
	if limit <= 0 {
		limit = 10
	}

	query := "SELECT " + customerColumns + ` FROM customers
		ORDER BY lifetime_value DESC, total_orders DESC
		LIMIT ?`

	rows, err := r.executeQuery(ctx, "get_top_customers", query, limit)
	if err != nil {
		return nil, err
	}

	return r.scanCustomers(rows, "get_top_customers")
}
