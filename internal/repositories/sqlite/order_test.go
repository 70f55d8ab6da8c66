package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/ordernum"
	"rihla-backoffice-api/internal/repositories"
)

func makeTestOrder(total float64) *models.Order {
	order := models.NewOrder("brand-1", "Walk-in Customer")
	order.BrandName = "Rihla"
	order.Items = []models.OrderItem{
		{ProductID: "prod-1", ProductName: "Leather Duffel", Quantity: 1, Price: total, SKU: "SKU-001"},
	}
	order.Subtotal = total
	order.ApplyVAT = false
	order.Total = total
	return order
}

func TestOrderRepository_CreateWithNumber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(db, testLogger())
	ctx := context.Background()

	first := makeTestOrder(850)
	if err := repo.CreateWithNumber(ctx, first); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}

	second := makeTestOrder(180)
	if err := repo.CreateWithNumber(ctx, second); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}

	day := ordernum.DayKey(first.CreatedAt)
	if want := ordernum.Sequential(first.CreatedAt, 1); first.OrderNumber != want {
		t.Errorf("first order number = %s, want %s", first.OrderNumber, want)
	}
	if want := ordernum.Sequential(second.CreatedAt, 2); second.OrderNumber != want {
		t.Errorf("second order number = %s, want %s", second.OrderNumber, want)
	}

	// Sequence row holds the high-water mark for the day
	var seq int64
	if err := db.QueryRow("SELECT seq FROM order_sequences WHERE day = ?", day).Scan(&seq); err != nil {
		t.Fatalf("reading sequence row failed: %v", err)
	}
	if seq != 2 {
		t.Errorf("sequence = %d, want 2", seq)
	}
}

func TestOrderRepository_CreateWithNumber_Concurrent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// Mirror the production pool: a single writer connection.
	db.SetMaxOpenConns(1)

	repo := NewOrderRepository(db, testLogger())
	ctx := context.Background()

	const n = 20
	numbers := make(chan string, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order := makeTestOrder(100)
			if err := repo.CreateWithNumber(ctx, order); err != nil {
				errs <- err
				return
			}
			numbers <- order.OrderNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("CreateWithNumber() failed under concurrency: %v", err)
	}

	seen := make(map[string]bool, n)
	for number := range numbers {
		if seen[number] {
			t.Errorf("order number %s assigned twice", number)
		}
		seen[number] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct order numbers, want %d", len(seen), n)
	}
}

func TestOrderRepository_CreateWithNumber_DecrementsStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	orderRepo := NewOrderRepository(db, testLogger())
	productRepo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	product := models.NewProduct("SKU-DEC", "Leather Duffel", "brand-1", "bags", 850)
	product.Stock = 5
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("product Create() failed: %v", err)
	}

	// Ordering more than is on hand floors the stock at zero in the same
	// transaction that commits the order.
	order := makeTestOrder(850)
	order.Items = []models.OrderItem{
		{ProductID: product.ID, ProductName: product.Name, Quantity: 7, Price: 850, SKU: product.SKU},
	}
	if err := orderRepo.CreateWithNumber(ctx, order); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}

	updated, err := productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if updated.Stock != 0 {
		t.Errorf("stock = %d, want 0 (floored)", updated.Stock)
	}
}

func TestOrderRepository_CreateWithNumber_FailedInsertLeavesStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	orderRepo := NewOrderRepository(db, testLogger())
	productRepo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	product := models.NewProduct("SKU-ROLL", "Travel Kit", "brand-1", "kits", 180)
	product.Stock = 5
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("product Create() failed: %v", err)
	}

	first := makeTestOrder(180)
	first.Items = []models.OrderItem{
		{ProductID: product.ID, ProductName: product.Name, Quantity: 2, Price: 180, SKU: product.SKU},
	}
	if err := orderRepo.CreateWithNumber(ctx, first); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}

	// Reusing the first order's primary key makes the insert fail; the
	// transaction rolls back and the stock stays where the first order left it.
	second := makeTestOrder(180)
	second.ID = first.ID
	second.Items = first.Items
	if err := orderRepo.CreateWithNumber(ctx, second); err == nil {
		t.Fatal("CreateWithNumber() with a duplicate ID succeeded, want error")
	}

	updated, err := productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if updated.Stock != 3 {
		t.Errorf("stock = %d, want 3 (only the committed order decremented)", updated.Stock)
	}
}

func TestOrderRepository_GetByNumber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(db, testLogger())
	ctx := context.Background()

	order := makeTestOrder(500)
	order.Items = append(order.Items, models.OrderItem{
		ProductID: "prod-2", ProductName: "Travel Kit", Quantity: 2, Price: 0, SKU: "SKU-002",
	})
	if err := repo.CreateWithNumber(ctx, order); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}

	retrieved, err := repo.GetByNumber(ctx, order.OrderNumber)
	if err != nil {
		t.Fatalf("GetByNumber() failed: %v", err)
	}

	if retrieved.ID != order.ID {
		t.Errorf("retrieved order ID = %s, want %s", retrieved.ID, order.ID)
	}
	if len(retrieved.Items) != 2 {
		t.Errorf("retrieved %d line items, want 2", len(retrieved.Items))
	}

	if _, err := repo.GetByNumber(ctx, "ORD-000000-9999"); !repositories.IsNotFound(err) {
		t.Errorf("GetByNumber() on missing order: error = %v, want not found", err)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(db, testLogger())
	ctx := context.Background()

	order := makeTestOrder(100)
	if err := repo.CreateWithNumber(ctx, order); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}

	if err := repo.UpdateStatus(ctx, order.ID, models.OrderStatusProcessing); err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Status != models.OrderStatusProcessing {
		t.Errorf("status = %s, want processing", retrieved.Status)
	}

	if err := repo.UpdateStatus(ctx, "missing-id", models.OrderStatusShipped); !repositories.IsNotFound(err) {
		t.Errorf("UpdateStatus() on missing order: error = %v, want not found", err)
	}
}

func TestOrderRepository_RevenueSince(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(db, testLogger())
	ctx := context.Background()

	kept := makeTestOrder(1000)
	cancelled := makeTestOrder(400)

	if err := repo.CreateWithNumber(ctx, kept); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}
	if err := repo.CreateWithNumber(ctx, cancelled); err != nil {
		t.Fatalf("CreateWithNumber() failed: %v", err)
	}
	if err := repo.UpdateStatus(ctx, cancelled.ID, models.OrderStatusCancelled); err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}

	since := time.Now().Add(-time.Hour)
	revenue, err := repo.RevenueSince(ctx, since)
	if err != nil {
		t.Fatalf("RevenueSince() failed: %v", err)
	}

	// Cancelled orders are excluded from revenue
	if revenue != 1000 {
		t.Errorf("revenue = %v, want 1000", revenue)
	}

	buckets, err := repo.RevenueByDay(ctx, since)
	if err != nil {
		t.Fatalf("RevenueByDay() failed: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("RevenueByDay() returned %d buckets, want 1", len(buckets))
	}
	if buckets[0].Orders != 1 || buckets[0].Revenue != 1000 {
		t.Errorf("bucket = %+v, want 1 order / 1000 revenue", buckets[0])
	}
}

func TestOrderRepository_CountByStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(db, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		order := makeTestOrder(float64(100 * (i + 1)))
		if err := repo.CreateWithNumber(ctx, order); err != nil {
			t.Fatalf("CreateWithNumber() failed: %v", err)
		}
		if i == 0 {
			if err := repo.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
				t.Fatalf("UpdateStatus() failed: %v", err)
			}
		}
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() failed: %v", err)
	}

	if counts[models.OrderStatusPending] != 2 {
		t.Errorf("pending count = %d, want 2", counts[models.OrderStatusPending])
	}
	if counts[models.OrderStatusCancelled] != 1 {
		t.Errorf("cancelled count = %d, want 1", counts[models.OrderStatusCancelled])
	}
}
