package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// UserRepository implements the UserRepository interface for SQLite
type UserRepository struct {
	*BaseRepository[models.User]
}

// NewUserRepository creates a new SQLite user repository
func NewUserRepository(db *sql.DB, logger *logrus.Logger) repositories.UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository[models.User](db, "users", logger),
	}
}

const userColumns = `
	id, email, password_hash, full_name, role, employee_id,
	perm_dashboard, perm_orders, perm_inventory, perm_customers,
	perm_analytics, perm_settings, perm_can_create, perm_can_edit, perm_can_delete,
	two_factor_secret, two_factor_enabled, last_login, is_active,
	created_at, updated_at`

func scanUser(scanner interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.EmployeeID,
		&user.Permissions.Dashboard,
		&user.Permissions.Orders,
		&user.Permissions.Inventory,
		&user.Permissions.Customers,
		&user.Permissions.Analytics,
		&user.Permissions.Settings,
		&user.Permissions.CanCreate,
		&user.Permissions.CanEdit,
		&user.Permissions.CanDelete,
		&user.TwoFactorSecret,
		&user.TwoFactorEnabled,
		&user.LastLogin,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user. Role permissions are enforced before the write
// so an admin row can never be stored with a partial permission set.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return repositories.ValidationError("user", user.ID, err)
	}

	user.ApplyRolePermissions()

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.EmployeeID,
		user.Permissions.Dashboard,
		user.Permissions.Orders,
		user.Permissions.Inventory,
		user.Permissions.Customers,
		user.Permissions.Analytics,
		user.Permissions.Settings,
		user.Permissions.CanCreate,
		user.Permissions.CanEdit,
		user.Permissions.CanDelete,
		user.TwoFactorSecret,
		user.TwoFactorEnabled,
		user.LastLogin,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("user", "email", user.Email)
		}
		return err
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	row := r.executeQueryRow(ctx, "get_by_id", query, id)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("user", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "user", id, err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	row := r.executeQueryRow(ctx, "get_by_email", query, email)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("user", email)
		}
		return nil, repositories.NewRepositoryError("get_by_email", "user", email, err)
	}

	return user, nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return repositories.ValidationError("user", user.ID, err)
	}

	user.ApplyRolePermissions()
	user.UpdateTimestamp()

	query := `
		UPDATE users
		SET email = ?, password_hash = ?, full_name = ?, role = ?, employee_id = ?,
			perm_dashboard = ?, perm_orders = ?, perm_inventory = ?, perm_customers = ?,
			perm_analytics = ?, perm_settings = ?, perm_can_create = ?, perm_can_edit = ?,
			perm_can_delete = ?, is_active = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.EmployeeID,
		user.Permissions.Dashboard,
		user.Permissions.Orders,
		user.Permissions.Inventory,
		user.Permissions.Customers,
		user.Permissions.Analytics,
		user.Permissions.Settings,
		user.Permissions.CanCreate,
		user.Permissions.CanEdit,
		user.Permissions.CanDelete,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("user", "email", user.Email)
		}
		return err
	}

	return r.checkRowsAffected(result, "update", user.ID)
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves users with optional filters
func (r *UserRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "user", "", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "user", "", err)
	}

	return users, nil
}

// Count returns the total number of users matching the filters
func (r *UserRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM users"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}

	row := r.executeQueryRow(ctx, "count", query, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "user", "", err)
	}

	return count, nil
}

// SetTwoFactorSecret stores the TOTP secret and enabled flag
func (r *UserRepository) SetTwoFactorSecret(ctx context.Context, id, secret string, enabled bool) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	var secretValue interface{}
	if secret != "" {
		secretValue = secret
	}

	result, err := r.executeExec(ctx, "set_two_factor", `
		UPDATE users
		SET two_factor_secret = ?, two_factor_enabled = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, secretValue, enabled, id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "set_two_factor", id)
}

// UpdateLastLogin stamps the last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "update_last_login",
		"UPDATE users SET last_login = ? WHERE id = ?", at, id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update_last_login", id)
}
