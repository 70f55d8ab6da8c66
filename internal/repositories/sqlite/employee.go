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

// EmployeeRepository implements the EmployeeRepository interface for SQLite
type EmployeeRepository struct {
	*BaseRepository[models.Employee]
}

// NewEmployeeRepository creates a new SQLite employee repository
func NewEmployeeRepository(db *sql.DB, logger *logrus.Logger) repositories.EmployeeRepository {
	return &EmployeeRepository{
		BaseRepository: NewBaseRepository[models.Employee](db, "employees", logger),
	}
}

const employeeColumns = `
	e.id, e.name, e.email, e.phone, e.position, e.department, e.brand_id,
	COALESCE(b.name, ''), e.salary, e.bonus, e.target, e.achieved,
	e.last_reset_year, e.status, e.hire_date, e.created_at, e.updated_at`

const employeeSelect = "SELECT " + employeeColumns + " FROM employees e LEFT JOIN brands b ON b.id = e.brand_id"

func scanEmployee(scanner interface{ Scan(...interface{}) error }) (*models.Employee, error) {
	employee := &models.Employee{}
	err := scanner.Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.Phone,
		&employee.Position,
		&employee.Department,
		&employee.BrandID,
		&employee.BrandName,
		&employee.Salary,
		&employee.Bonus,
		&employee.Target,
		&employee.Achieved,
		&employee.LastResetYear,
		&employee.Status,
		&employee.HireDate,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *EmployeeRepository) scanEmployees(rows *sql.Rows, operation string) ([]*models.Employee, error) {
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "employee", "", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "employee", "", err)
	}

	return employees, nil
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if err := employee.Validate(); err != nil {
		return repositories.ValidationError("employee", employee.ID, err)
	}

	query := `
		INSERT INTO employees (
			id, name, email, phone, position, department, brand_id, salary,
			bonus, target, achieved, last_reset_year, status, hire_date,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		employee.ID,
		employee.Name,
		employee.Email,
		employee.Phone,
		employee.Position,
		employee.Department,
		employee.BrandID,
		employee.Salary,
		employee.Bonus,
		employee.Target,
		employee.Achieved,
		employee.LastResetYear,
		employee.Status,
		employee.HireDate,
		employee.CreatedAt,
		employee.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("employee", "email", employee.Email)
		}
		return err
	}

	return nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	row := r.executeQueryRow(ctx, "get_by_id", employeeSelect+" WHERE e.id = ?", id)

	employee, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("employee", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "employee", id, err)
	}

	return employee, nil
}

// GetByEmail retrieves an employee by email address
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	row := r.executeQueryRow(ctx, "get_by_email", employeeSelect+" WHERE e.email = ?", email)

	employee, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("employee", email)
		}
		return nil, repositories.NewRepositoryError("get_by_email", "employee", email, err)
	}

	return employee, nil
}

// Update updates an existing employee. Achieved and last_reset_year are
// intentionally not written here; the order workflow owns them via
// CreditAchievement.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	if err := employee.Validate(); err != nil {
		return repositories.ValidationError("employee", employee.ID, err)
	}

	employee.UpdateTimestamp()

	query := `
		UPDATE employees
		SET name = ?, email = ?, phone = ?, position = ?, department = ?,
			brand_id = ?, salary = ?, bonus = ?, target = ?, status = ?,
			hire_date = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		employee.Name,
		employee.Email,
		employee.Phone,
		employee.Position,
		employee.Department,
		employee.BrandID,
		employee.Salary,
		employee.Bonus,
		employee.Target,
		employee.Status,
		employee.HireDate,
		employee.UpdatedAt,
		employee.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("employee", "email", employee.Email)
		}
		return err
	}

	return r.checkRowsAffected(result, "update", employee.ID)
}

// Delete deletes an employee by ID
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves employees with optional filters
func (r *EmployeeRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Employee, error) {
	query := employeeSelect

	whereClause, args := r.buildEmployeeWhere(filters)
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY e.name ASC"

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}

	return r.scanEmployees(rows, "list")
}

func (r *EmployeeRepository) buildEmployeeWhere(filters map[string]interface{}) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}

	qualified := make(map[string]interface{}, len(filters))
	for field, value := range filters {
		qualified["e."+field] = value
	}
	return r.buildWhereClause(qualified)
}

// Count returns the total number of employees matching the filters
func (r *EmployeeRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM employees"

	whereClause, args := r.buildWhereClause(filters)
	if whereClause != "" {
		query += " " + whereClause
	}

	row := r.executeQueryRow(ctx, "count", query, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "employee", "", err)
	}

	return count, nil
}

// GetActive retrieves employees with active status
func (r *EmployeeRepository) GetActive(ctx context.Context) ([]*models.Employee, error) {
	rows, err := r.executeQuery(ctx, "get_active",
		employeeSelect+" WHERE e.status = ? ORDER BY e.name ASC", models.EmployeeStatusActive)
	if err != nil {
		return nil, err
	}

	return r.scanEmployees(rows, "get_active")
}

// CreditAchievement adds amount to the employee's achieved total for the
// current calendar year. When last_reset_year is stale the counter starts
// from zero before the credit. Reset and credit are a single UPDATE so
// concurrent orders around new year cannot double-reset or lose a credit.
func (r *EmployeeRepository) CreditAchievement(ctx context.Context, id string, amount float64, now time.Time) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	year := now.Year()
	query := `
		UPDATE employees
		SET achieved = CASE WHEN last_reset_year < ? THEN ? ELSE achieved + ? END,
			last_reset_year = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.executeExec(ctx, "credit_achievement", query, year, amount, amount, year, id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "credit_achievement", id)
}
