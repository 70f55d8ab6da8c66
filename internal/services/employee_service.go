package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	brandRepo    repositories.BrandRepository
	validator    *validator.Validate
}

// NewEmployeeService creates a new employee service instance
func NewEmployeeService(
	employeeRepo repositories.EmployeeRepository,
	brandRepo repositories.BrandRepository,
) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		brandRepo:    brandRepo,
		validator:    validator.New(),
	}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*models.Employee, error) {
	if req == nil {
		return nil, fmt.Errorf("create employee request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.brandRepo.GetByID(ctx, req.BrandID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("brand %s: %w", req.BrandID, ErrBrandNotFound)
		}
		return nil, fmt.Errorf("brand lookup failed: %w", err)
	}

	employee := models.NewEmployee(strings.TrimSpace(req.Name), req.Email, req.Position, req.Department, req.BrandID)
	employee.Phone = req.Phone
	employee.Salary = req.Salary
	employee.Target = req.Target
	if req.HireDate != nil {
		employee.HireDate = *req.HireDate
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if id == "" {
		return nil, fmt.Errorf("employee ID cannot be empty")
	}
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req *UpdateEmployeeRequest) (*models.Employee, error) {
	if req == nil {
		return nil, fmt.Errorf("update employee request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		employee.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		employee.Phone = req.Phone
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Department != nil {
		employee.Department = *req.Department
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.Bonus != nil {
		employee.Bonus = *req.Bonus
	}
	if req.Target != nil {
		employee.Target = *req.Target
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("employee ID cannot be empty")
	}
	return s.employeeRepo.Delete(ctx, id)
}

func (s *employeeService) ListEmployees(ctx context.Context, filters *EmployeeFilters) ([]*models.Employee, error) {
	repoFilters := make(map[string]interface{})
	if filters != nil {
		if filters.BrandID != "" {
			repoFilters["brand_id"] = filters.BrandID
		}
		if filters.Department != "" {
			repoFilters["department"] = filters.Department
		}
		if filters.Status != "" {
			repoFilters["status"] = filters.Status
		}
	}
	return s.employeeRepo.List(ctx, repoFilters)
}

// GetEmployeeStats aggregates target attainment across all employees
func (s *employeeService) GetEmployeeStats(ctx context.Context) (*EmployeeStats, error) {
	employees, err := s.employeeRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &EmployeeStats{TotalEmployees: int64(len(employees))}

	var rateSum float64
	var rated int
	for _, e := range employees {
		if e.IsActive() {
			stats.ActiveEmployees++
		}
		stats.TotalTarget += e.Target
		stats.TotalAchieved += e.Achieved
		if e.Target > 0 {
			rateSum += e.AchievementRate()
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRate = rateSum / float64(rated)
	}

	return stats, nil
}
