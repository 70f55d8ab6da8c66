package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmployeeStatus represents the employment status of an employee
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusInactive   EmployeeStatus = "inactive"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// Employee represents an employee attributed with sales.
//
// Achieved is a year-scoped counter: the first order credited in a calendar
// year later than LastResetYear resets it to zero before the credit is
// applied. It is not a lifetime total.
type Employee struct {
	ID            string         `json:"id" db:"id" validate:"required,uuid"`
	Name          string         `json:"name" db:"name" validate:"required,min=1,max=255"`
	Email         string         `json:"email" db:"email" validate:"required,email"`
	Phone         *string        `json:"phone,omitempty" db:"phone"`
	Position      string         `json:"position" db:"position" validate:"required"`
	Department    string         `json:"department" db:"department" validate:"required"`
	BrandID       string         `json:"brand_id" db:"brand_id" validate:"required,uuid"`
	BrandName     string         `json:"brand_name,omitempty" db:"brand_name"`
	Salary        float64        `json:"salary" db:"salary"`
	Bonus         float64        `json:"bonus" db:"bonus"`
	Target        float64        `json:"target" db:"target"`
	Achieved      float64        `json:"achieved" db:"achieved"`
	LastResetYear int            `json:"last_reset_year" db:"last_reset_year"`
	Status        EmployeeStatus `json:"status" db:"status"`
	HireDate      time.Time      `json:"hire_date" db:"hire_date"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// NewEmployee creates a new employee with generated ID and timestamps
func NewEmployee(name, email, position, department, brandID string) *Employee {
	now := time.Now()
	return &Employee{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         strings.ToLower(strings.TrimSpace(email)),
		Position:      position,
		Department:    department,
		BrandID:       brandID,
		LastResetYear: now.Year(),
		Status:        EmployeeStatusActive,
		HireDate:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the employee data
func (e *Employee) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("employee ID is required")
	}

	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("employee name is required")
	}

	if strings.TrimSpace(e.Email) == "" {
		return fmt.Errorf("employee email is required")
	}

	if strings.TrimSpace(e.Position) == "" {
		return fmt.Errorf("employee position is required")
	}

	if strings.TrimSpace(e.Department) == "" {
		return fmt.Errorf("employee department is required")
	}

	if e.BrandID == "" {
		return fmt.Errorf("employee brand ID is required")
	}

	return nil
}

// ResetYearlyTarget resets the achieved counter when a new calendar year has started
func (e *Employee) ResetYearlyTarget(now time.Time) {
	currentYear := now.Year()
	if e.LastResetYear < currentYear {
		e.Achieved = 0
		e.LastResetYear = currentYear
	}
}

// AchievementRate returns the percentage of the annual target achieved
func (e *Employee) AchievementRate() float64 {
	if e.Target <= 0 {
		return 0
	}
	return e.Achieved / e.Target * 100
}

// IsActive returns true if the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (e *Employee) UpdateTimestamp() {
	e.UpdatedAt = time.Now()
}
