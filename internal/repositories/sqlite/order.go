package sqlite

import (
	"context"
	"database/sql"
	"time"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/ordernum"
	"rihla-backoffice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// OrderRepository implements the OrderRepository interface for SQLite
type OrderRepository struct {
	*BaseRepository[models.Order]
}

// NewOrderRepository creates a new SQLite order repository
func NewOrderRepository(db *sql.DB, logger *logrus.Logger) repositories.OrderRepository {
	return &OrderRepository{
		BaseRepository: NewBaseRepository[models.Order](db, "orders", logger),
	}
}

const orderColumns = `
	id, order_number, customer_id, customer_name, customer_email, customer_phone,
	brand_id, brand_name, subtotal, vat_rate, vat_amount, apply_vat,
	shipping_charges, discount, total, currency, status, payment_method,
	payment_status, shipping_address, notes, created_by_user_id,
	attributed_employee_id, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...interface{}) error }) (*models.Order, error) {
	order := &models.Order{}
	err := scanner.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.BrandID,
		&order.BrandName,
		&order.Subtotal,
		&order.VATRate,
		&order.VATAmount,
		&order.ApplyVAT,
		&order.ShippingCharges,
		&order.Discount,
		&order.Total,
		&order.Currency,
		&order.Status,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.ShippingAddress,
		&order.Notes,
		&order.CreatedByUserID,
		&order.AttributedEmployeeID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateWithNumber inserts the order and its items in one transaction and
// decrements product stock for every line item in the same transaction, so an
// order can never commit without its inventory effect.
//
// The daily sequence comes from a conditional upsert on order_sequences:
// INSERT .. ON CONFLICT .. SET seq = seq + 1 RETURNING seq. The increment
// happens inside the row lock, so two concurrent orders on the same day can
// never observe the same sequence value. The assigned number is written back
// to order.OrderNumber before commit.
func (r *OrderRepository) CreateWithNumber(ctx context.Context, order *models.Order) error {
	if order.OrderNumber == "" {
		// Placeholder so Validate passes before the real number is assigned.
		order.OrderNumber = ordernum.Sequential(order.CreatedAt, 0)
	}
	if err := order.Validate(); err != nil {
		return repositories.ValidationError("order", order.ID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.TransactionError("begin", err)
	}
	defer tx.Rollback()

	dayKey := ordernum.DayKey(order.CreatedAt)

	var seq int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_sequences (day, seq) VALUES (?, 1)
		ON CONFLICT(day) DO UPDATE SET seq = seq + 1
		RETURNING seq`, dayKey).Scan(&seq)
	if err != nil {
		return repositories.NewRepositoryError("next_sequence", "order", order.ID, err)
	}

	order.OrderNumber = ordernum.Sequential(order.CreatedAt, seq)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.BrandID,
		order.BrandName,
		order.Subtotal,
		order.VATRate,
		order.VATAmount,
		order.ApplyVAT,
		order.ShippingCharges,
		order.Discount,
		order.Total,
		order.Currency,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.ShippingAddress,
		order.Notes,
		order.CreatedByUserID,
		order.AttributedEmployeeID,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("order", "order_number", order.OrderNumber)
		}
		return repositories.NewRepositoryError("create", "order", order.ID, err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price, sku)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.SKU)
		if err != nil {
			return repositories.NewRepositoryError("create_item", "order", order.ID, err)
		}

		// Stock floors at zero in the same statement, so concurrent orders
		// can neither drive it negative nor lose a decrement.
		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = MAX(0, stock - ?), updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			item.Quantity, item.ProductID)
		if err != nil {
			return repositories.NewRepositoryError("decrement_stock", "order", order.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return repositories.TransactionError("commit", err)
	}

	r.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items":        len(order.Items),
		"total":        order.Total,
	}).Info("Order created")

	return nil
}

// Create inserts the order as-is, assuming the order number is already set.
// Most callers want CreateWithNumber.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return repositories.ValidationError("order", order.ID, err)
	}

	_, err := r.executeExec(ctx, "create", `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.BrandID,
		order.BrandName,
		order.Subtotal,
		order.VATRate,
		order.VATAmount,
		order.ApplyVAT,
		order.ShippingCharges,
		order.Discount,
		order.Total,
		order.Currency,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.ShippingAddress,
		order.Notes,
		order.CreatedByUserID,
		order.AttributedEmployeeID,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("order", "order_number", order.OrderNumber)
		}
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		_, err = r.executeExec(ctx, "create_item", `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price, sku)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.SKU)
		if err != nil {
			return err
		}
	}

	return nil
}

// loadItems fetches the line items for each order in place
func (r *OrderRepository) loadItems(ctx context.Context, orders []*models.Order) error {
	for _, order := range orders {
		rows, err := r.executeQuery(ctx, "load_items", `
			SELECT product_id, product_name, quantity, price, sku
			FROM order_items WHERE order_id = ? ORDER BY rowid`, order.ID)
		if err != nil {
			return err
		}

		for rows.Next() {
			var item models.OrderItem
			if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price, &item.SKU); err != nil {
				rows.Close()
				return repositories.NewRepositoryError("load_items", "order", order.ID, err)
			}
			order.Items = append(order.Items, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return repositories.NewRepositoryError("load_items", "order", order.ID, err)
		}
		rows.Close()
	}

	return nil
}

func (r *OrderRepository) getOne(ctx context.Context, operation, where, key string) (*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE " + where
	row := r.executeQueryRow(ctx, operation, query, key)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("order", key)
		}
		return nil, repositories.NewRepositoryError(operation, "order", key, err)
	}

	if err := r.loadItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// GetByID retrieves an order with its line items
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "get_by_id", "id = ?", id)
}

// GetByNumber retrieves an order by its human-readable order number
func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return r.getOne(ctx, "get_by_number", "order_number = ?", orderNumber)
}

// Update updates the mutable order fields. Financial fields and line items
// are immutable after creation.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return repositories.ValidationError("order", order.ID, err)
	}

	order.UpdateTimestamp()

	query := `
		UPDATE orders
		SET status = ?, payment_status = ?, payment_method = ?,
			shipping_address = ?, notes = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.ShippingAddress,
		order.Notes,
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", order.ID)
}

// UpdateStatus sets the order status without touching other fields
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "update_status",
		"UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", status, id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update_status", id)
}

// Delete deletes an order and its line items
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	if _, err := r.executeExec(ctx, "delete_items", "DELETE FROM order_items WHERE order_id = ?", id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

func (r *OrderRepository) queryOrders(ctx context.Context, operation, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "order", "", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "order", "", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// List retrieves orders with optional filters, newest first
func (r *OrderRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY created_at DESC"

	return r.queryOrders(ctx, "list", query, args...)
}

// Count returns the total number of orders matching the filters
func (r *OrderRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM orders"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}

	row := r.executeQueryRow(ctx, "count", query, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "order", "", err)
	}

	return count, nil
}

// GetByCustomer retrieves orders for a customer, newest first
func (r *OrderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	return r.queryOrders(ctx, "get_by_customer",
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = ? ORDER BY created_at DESC", customerID)
}

// GetByBrand retrieves orders for a brand, newest first
func (r *OrderRepository) GetByBrand(ctx context.Context, brandID string) ([]*models.Order, error) {
	return r.queryOrders(ctx, "get_by_brand",
		"SELECT "+orderColumns+" FROM orders WHERE brand_id = ? ORDER BY created_at DESC", brandID)
}

// Search matches orders by order number, customer name or customer email
func (r *OrderRepository) Search(ctx context.Context, query string, limit int) ([]*models.Order, error) {
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + query + "%"
	return r.queryOrders(ctx, "search",
		"SELECT "+orderColumns+` FROM orders
		WHERE order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?
		ORDER BY created_at DESC
		LIMIT ?`, pattern, pattern, pattern, limit)
}

// RevenueSince sums order totals created at or after the given time,
// excluding cancelled and refunded orders
func (r *OrderRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	row := r.executeQueryRow(ctx, "revenue_since", `
		SELECT COALESCE(SUM(total), 0) FROM orders
		WHERE created_at >= ? AND status NOT IN (?, ?)`,
		since, models.OrderStatusCancelled, models.OrderStatusRefunded)

	var revenue float64
	if err := row.Scan(&revenue); err != nil {
		return 0, repositories.NewRepositoryError("revenue_since", "order", "", err)
	}

	return revenue, nil
}

// RevenueByDay returns per-day revenue buckets for the trailing window,
// excluding cancelled and refunded orders
func (r *OrderRepository) RevenueByDay(ctx context.Context, since time.Time) ([]models.RevenueBucket, error) {
	rows, err := r.executeQuery(ctx, "revenue_by_day", `
		SELECT DATE(created_at) AS day, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= ? AND status NOT IN (?, ?)
		GROUP BY DATE(created_at)
		ORDER BY day ASC`,
		since, models.OrderStatusCancelled, models.OrderStatusRefunded)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []models.RevenueBucket
	for rows.Next() {
		var bucket models.RevenueBucket
		if err := rows.Scan(&bucket.Day, &bucket.Orders, &bucket.Revenue); err != nil {
			return nil, repositories.NewRepositoryError("revenue_by_day", "order", "", err)
		}
		buckets = append(buckets, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("revenue_by_day", "order", "", err)
	}

	return buckets, nil
}

// CountByStatus returns the number of orders per status
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	rows, err := r.executeQuery(ctx, "count_by_status",
		"SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int64)
	for rows.Next() {
		var status models.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, repositories.NewRepositoryError("count_by_status", "order", "", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("count_by_status", "order", "", err)
	}

	return counts, nil
}
