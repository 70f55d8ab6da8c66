package sqlite

import (
	"context"
	"testing"
	"time"

	"rihla-backoffice-api/internal/models"
)

func TestEmployeeRepository_CreditAchievement(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db, testLogger())
	ctx := context.Background()

	employee := models.NewEmployee("Noor Saleh", "noor@example.com", "Sales Lead", "Sales", "brand-1")
	employee.Target = 100000
	employee.LastResetYear = 2026
	if err := repo.Create(ctx, employee); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	if err := repo.CreditAchievement(ctx, employee.ID, 2162, now); err != nil {
		t.Fatalf("CreditAchievement() failed: %v", err)
	}
	if err := repo.CreditAchievement(ctx, employee.ID, 838, now); err != nil {
		t.Fatalf("CreditAchievement() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, employee.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Achieved != 3000 {
		t.Errorf("Achieved = %v, want 3000 (credits accumulate within the year)", retrieved.Achieved)
	}
}

func TestEmployeeRepository_CreditAchievement_YearRollover(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db, testLogger())
	ctx := context.Background()

	employee := models.NewEmployee("Ziad Mansour", "ziad@example.com", "Account Manager", "Sales", "brand-1")
	employee.LastResetYear = 2026
	if err := repo.Create(ctx, employee); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Stale achieved total from last year
	if _, err := db.Exec("UPDATE employees SET achieved = 95000, last_reset_year = 2025 WHERE id = ?", employee.ID); err != nil {
		t.Fatalf("failed to seed stale counter: %v", err)
	}

	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	if err := repo.CreditAchievement(ctx, employee.ID, 500, now); err != nil {
		t.Fatalf("CreditAchievement() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, employee.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	// First credit of the new year resets to zero, then applies the credit
	if retrieved.Achieved != 500 {
		t.Errorf("Achieved = %v, want 500 after year rollover reset", retrieved.Achieved)
	}
	if retrieved.LastResetYear != 2026 {
		t.Errorf("LastResetYear = %d, want 2026", retrieved.LastResetYear)
	}
}

func TestEmployeeRepository_GetActive(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewEmployeeRepository(db, testLogger())
	ctx := context.Background()

	active := models.NewEmployee("Active", "active@example.com", "Clerk", "Ops", "brand-1")
	former := models.NewEmployee("Former", "former@example.com", "Clerk", "Ops", "brand-1")
	former.Status = models.EmployeeStatusTerminated

	for _, e := range []*models.Employee{active, former} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create(%s) failed: %v", e.Name, err)
		}
	}

	employees, err := repo.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if len(employees) != 1 || employees[0].ID != active.ID {
		t.Errorf("GetActive() returned %d employees, want only the active one", len(employees))
	}
}
