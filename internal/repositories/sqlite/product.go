package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ProductRepository implements the ProductRepository interface for SQLite
type ProductRepository struct {
	*BaseRepository[models.Product]
}

// NewProductRepository creates a new SQLite product repository
func NewProductRepository(db *sql.DB, logger *logrus.Logger) repositories.ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository[models.Product](db, "products", logger),
	}
}

// productColumns joins products against brands so reads carry the brand name
const productColumns = `
	p.id, p.sku, p.name, p.description, p.brand_id, COALESCE(b.name, ''),
	p.category, p.unit_price, p.currency, p.stock, p.low_stock_threshold,
	p.active, p.created_at, p.updated_at`

const productSelect = "SELECT " + productColumns + " FROM products p LEFT JOIN brands b ON b.id = p.brand_id"

func scanProduct(scanner interface{ Scan(...interface{}) error }) (*models.Product, error) {
	product := &models.Product{}
	err := scanner.Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.BrandID,
		&product.BrandName,
		&product.Category,
		&product.UnitPrice,
		&product.Currency,
		&product.Stock,
		&product.LowStockThreshold,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) scanProducts(rows *sql.Rows, operation string) ([]*models.Product, error) {
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "product", "", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "product", "", err)
	}

	return products, nil
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	query := `
		INSERT INTO products (
			id, sku, name, description, brand_id, category, unit_price,
			currency, stock, low_stock_threshold, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		product.ID,
		product.SKU,
		product.Name,
		product.Description,
		product.BrandID,
		product.Category,
		product.UnitPrice,
		product.Currency,
		product.Stock,
		product.LowStockThreshold,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("product", "sku", product.SKU)
		}
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	row := r.executeQueryRow(ctx, "get_by_id", productSelect+" WHERE p.id = ?", id)

	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "product", id, err)
	}

	return product, nil
}

// GetBySKU retrieves a product by its SKU
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	row := r.executeQueryRow(ctx, "get_by_sku", productSelect+" WHERE p.sku = ?", sku)

	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", sku)
		}
		return nil, repositories.NewRepositoryError("get_by_sku", "product", sku, err)
	}

	return product, nil
}

// Update updates an existing product. Stock changes from the order workflow
// go through DecrementStock instead so they stay atomic.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	product.UpdateTimestamp()

	query := `
		UPDATE products
		SET sku = ?, name = ?, description = ?, brand_id = ?, category = ?,
			unit_price = ?, currency = ?, stock = ?, low_stock_threshold = ?,
			active = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		product.SKU,
		product.Name,
		product.Description,
		product.BrandID,
		product.Category,
		product.UnitPrice,
		product.Currency,
		product.Stock,
		product.LowStockThreshold,
		product.Active,
		product.UpdatedAt,
		product.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("product", "sku", product.SKU)
		}
		return err
	}

	return r.checkRowsAffected(result, "update", product.ID)
}

// Delete deletes a product by ID
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves products with optional filters
func (r *ProductRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Product, error) {
	query := productSelect

	whereClause, args := r.buildProductWhere(filters)
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}

	return r.scanProducts(rows, "list")
}

// buildProductWhere qualifies filter columns with the products alias so the
// brand join does not make them ambiguous
func (r *ProductRepository) buildProductWhere(filters map[string]interface{}) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}

	qualified := make(map[string]interface{}, len(filters))
	for field, value := range filters {
		qualified["p."+field] = value
	}
	return r.buildWhereClause(qualified)
}

// Count returns the total number of products matching the filters
func (r *ProductRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM products"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}

	row := r.executeQueryRow(ctx, "count", query, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "product", "", err)
	}

	return count, nil
}

// Search performs a substring search on product name and SKU
func (r *ProductRepository) Search(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 50
	}

	sqlQuery := productSelect + `
		WHERE p.name LIKE ? OR p.sku LIKE ?
		ORDER BY p.name ASC
		LIMIT ?`

	pattern := "%" + query + "%"
	rows, err := r.executeQuery(ctx, "search", sqlQuery, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}

	return r.scanProducts(rows, "search")
}

// GetByBrand retrieves products belonging to a brand
func (r *ProductRepository) GetByBrand(ctx context.Context, brandID string) ([]*models.Product, error) {
	rows, err := r.executeQuery(ctx, "get_by_brand",
		productSelect+" WHERE p.brand_id = ? ORDER BY p.name ASC", brandID)
	if err != nil {
		return nil, err
	}

	return r.scanProducts(rows, "get_by_brand")
}

// GetByCategory retrieves products by category
func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	rows, err := r.executeQuery(ctx, "get_by_category",
		productSelect+" WHERE p.category = ? ORDER BY p.name ASC", category)
	if err != nil {
		return nil, err
	}

	return r.scanProducts(rows, "get_by_category")
}

// GetLowStock retrieves active products at or below their low-stock threshold
func (r *ProductRepository) GetLowStock(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.executeQuery(ctx, "get_low_stock",
		productSelect+" WHERE p.active = 1 AND p.stock <= p.low_stock_threshold ORDER BY p.stock ASC")
	if err != nil {
		return nil, err
	}

	return r.scanProducts(rows, "get_low_stock")
}

// DecrementStock atomically reduces stock by quantity, flooring at zero.
// The decrement and the floor happen in one UPDATE so concurrent orders can
// never drive stock negative or lose a decrement.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	if err := r.validateID(id); err != nil {
		return 0, err
	}
	if quantity < 1 {
		return 0, repositories.ValidationError("product", id,
			fmt.Errorf("decrement quantity must be at least 1, got %d", quantity))
	}

	query := `
		UPDATE products
		SET stock = MAX(0, stock - ?), updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.executeExec(ctx, "decrement_stock", query, quantity, id)
	if err != nil {
		return 0, err
	}

	if err := r.checkRowsAffected(result, "decrement_stock", id); err != nil {
		return 0, err
	}

	var stock int
	row := r.executeQueryRow(ctx, "decrement_stock", "SELECT stock FROM products WHERE id = ?", id)
	if err := row.Scan(&stock); err != nil {
		return 0, repositories.NewRepositoryError("decrement_stock", "product", id, err)
	}

	return stock, nil
}
