package sqlite

import (
	"context"
	"testing"
	"time"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

func TestCustomerRepository_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	customer := models.NewCustomer("Sara Ahmed")
	customer.SetEmail("Sara.Ahmed@Example.com")
	customer.SetPhone("+966500000001")

	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if retrieved.Name != "Sara Ahmed" {
		t.Errorf("Name = %s, want Sara Ahmed", retrieved.Name)
	}
	if retrieved.GetEmail() != "sara.ahmed@example.com" {
		t.Errorf("Email = %s, want normalized lowercase", retrieved.GetEmail())
	}
	if retrieved.TotalOrders != 0 || retrieved.LifetimeValue != 0 {
		t.Errorf("new customer counters should be zero, got %d / %v",
			retrieved.TotalOrders, retrieved.LifetimeValue)
	}
}

func TestCustomerRepository_GetByEmail_OldestMatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	// Two customers sharing one email; lookup must return the older one.
	first := models.NewCustomer("First")
	first.SetEmail("shared@example.com")
	first.CreatedAt = time.Now().Add(-time.Hour)

	second := models.NewCustomer("Second")
	second.SetEmail("shared@example.com")

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create(first) failed: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create(second) failed: %v", err)
	}

	retrieved, err := repo.GetByEmail(ctx, "shared@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	if retrieved.ID != first.ID {
		t.Errorf("GetByEmail() returned %s, want oldest customer %s", retrieved.Name, first.Name)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !repositories.IsNotFound(err) {
		t.Errorf("GetByEmail() on missing email: error = %v, want not found", err)
	}
}

func TestCustomerRepository_IncrementOrderStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	customer := models.NewCustomer("Repeat Buyer")
	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	orderedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	if err := repo.IncrementOrderStats(ctx, customer.ID, 2162, orderedAt); err != nil {
		t.Fatalf("IncrementOrderStats() failed: %v", err)
	}
	if err := repo.IncrementOrderStats(ctx, customer.ID, 338, orderedAt.Add(time.Hour)); err != nil {
		t.Fatalf("IncrementOrderStats() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if retrieved.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", retrieved.TotalOrders)
	}
	if retrieved.LifetimeValue != 2500 {
		t.Errorf("LifetimeValue = %v, want 2500", retrieved.LifetimeValue)
	}
	if retrieved.LastOrderDate == nil {
		t.Error("LastOrderDate should be set")
	}
}

func TestCustomerRepository_Search(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	a := models.NewCustomer("Alia Hassan")
	a.SetEmail("alia@example.com")
	b := models.NewCustomer("Omar Khalid")
	b.SetPhone("+966512345678")

	for _, c := range []*models.Customer{a, b} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	results, err := repo.Search(ctx, "alia", 10)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != a.ID {
		t.Errorf("Search(alia) returned %d results, want Alia Hassan", len(results))
	}

	results, err = repo.Search(ctx, "512345", 10)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != b.ID {
		t.Errorf("Search by phone fragment returned %d results, want Omar Khalid", len(results))
	}
}
