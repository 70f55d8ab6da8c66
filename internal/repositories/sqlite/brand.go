package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// BrandRepository implements the BrandRepository interface for SQLite
type BrandRepository struct {
	*BaseRepository[models.Brand]
}

// NewBrandRepository creates a new SQLite brand repository
func NewBrandRepository(db *sql.DB, logger *logrus.Logger) repositories.BrandRepository {
	return &BrandRepository{
		BaseRepository: NewBaseRepository[models.Brand](db, "brands", logger),
	}
}

const brandColumns = "id, name, code, color, currency, vat_rate, created_at, updated_at"

func scanBrand(scanner interface{ Scan(...interface{}) error }) (*models.Brand, error) {
	brand := &models.Brand{}
	err := scanner.Scan(
		&brand.ID,
		&brand.Name,
		&brand.Code,
		&brand.Color,
		&brand.Currency,
		&brand.VATRate,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return brand, nil
}

// Create creates a new brand
func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) error {
	if err := brand.Validate(); err != nil {
		return repositories.ValidationError("brand", brand.ID, err)
	}

	query := `
		INSERT INTO brands (id, name, code, color, currency, vat_rate, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		brand.ID,
		brand.Name,
		brand.Code,
		brand.Color,
		brand.Currency,
		brand.VATRate,
		brand.CreatedAt,
		brand.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("brand", "code", brand.Code)
		}
		return err
	}

	return nil
}

// GetByID retrieves a brand by ID
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := "SELECT " + brandColumns + " FROM brands WHERE id = ?"
	row := r.executeQueryRow(ctx, "get_by_id", query, id)

	brand, err := scanBrand(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("brand", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "brand", id, err)
	}

	return brand, nil
}

// GetByCode retrieves a brand by its short code
func (r *BrandRepository) GetByCode(ctx context.Context, code string) (*models.Brand, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	query := "SELECT " + brandColumns + " FROM brands WHERE code = ?"
	row := r.executeQueryRow(ctx, "get_by_code", query, code)

	brand, err := scanBrand(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("brand", code)
		}
		return nil, repositories.NewRepositoryError("get_by_code", "brand", code, err)
	}

	return brand, nil
}

// Update updates an existing brand
func (r *BrandRepository) Update(ctx context.Context, brand *models.Brand) error {
	if err := brand.Validate(); err != nil {
		return repositories.ValidationError("brand", brand.ID, err)
	}

	brand.UpdateTimestamp()

	query := `
		UPDATE brands
		SET name = ?, code = ?, color = ?, currency = ?, vat_rate = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		brand.Name,
		brand.Code,
		brand.Color,
		brand.Currency,
		brand.VATRate,
		brand.UpdatedAt,
		brand.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("brand", "code", brand.Code)
		}
		return err
	}

	return r.checkRowsAffected(result, "update", brand.ID)
}

// Delete deletes a brand by ID
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM brands WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves brands with optional filters
func (r *BrandRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Brand, error) {
	query := "SELECT " + brandColumns + " FROM brands"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY name ASC"

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*models.Brand
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "brand", "", err)
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "brand", "", err)
	}

	return brands, nil
}

// Count returns the total number of brands matching the filters
func (r *BrandRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM brands"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}

	row := r.executeQueryRow(ctx, "count", query, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "brand", "", err)
	}

	return count, nil
}
