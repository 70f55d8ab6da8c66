package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/pricing"
	"rihla-backoffice-api/internal/repositories"
	"rihla-backoffice-api/internal/repositories/sqlite"
)

const workflowSchema = `
	CREATE TABLE brands (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		color TEXT,
		currency TEXT NOT NULL DEFAULT 'SAR',
		vat_rate REAL NOT NULL DEFAULT 0.15,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		brand_id TEXT NOT NULL,
		category TEXT NOT NULL,
		unit_price REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'SAR',
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		low_stock_threshold INTEGER NOT NULL DEFAULT 5,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		customer_type TEXT NOT NULL DEFAULT 'individual',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		total_orders INTEGER NOT NULL DEFAULT 0,
		lifetime_value REAL NOT NULL DEFAULT 0,
		last_order_date DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		position TEXT NOT NULL,
		department TEXT NOT NULL,
		brand_id TEXT NOT NULL,
		salary REAL NOT NULL DEFAULT 0,
		bonus REAL NOT NULL DEFAULT 0,
		target REAL NOT NULL DEFAULT 0,
		achieved REAL NOT NULL DEFAULT 0,
		last_reset_year INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		hire_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_id TEXT,
		customer_name TEXT NOT NULL,
		customer_email TEXT,
		customer_phone TEXT,
		brand_id TEXT NOT NULL,
		brand_name TEXT NOT NULL DEFAULT '',
		subtotal REAL NOT NULL DEFAULT 0,
		vat_rate REAL NOT NULL DEFAULT 0,
		vat_amount REAL NOT NULL DEFAULT 0,
		apply_vat BOOLEAN NOT NULL DEFAULT 1,
		shipping_charges REAL NOT NULL DEFAULT 0,
		discount REAL NOT NULL DEFAULT 0,
		total REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'SAR',
		status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL DEFAULT 'Cash',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		shipping_address TEXT,
		notes TEXT,
		created_by_user_id TEXT,
		attributed_employee_id TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE order_items (
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		price REAL NOT NULL DEFAULT 0,
		sku TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE order_sequences (
		day TEXT PRIMARY KEY,
		seq INTEGER NOT NULL DEFAULT 0
	);
`

type workflowEnv struct {
	db           *sql.DB
	orders       OrderService
	customers    CustomerService
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	employeeRepo repositories.EmployeeRepository
	brand        *models.Brand
	duffel       *models.Product
	kit          *models.Product
}

func setupWorkflow(t *testing.T, strict bool) (*workflowEnv, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "workflow_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, err := db.Exec(workflowSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	env := &workflowEnv{
		db:           db,
		orderRepo:    sqlite.NewOrderRepository(db, logger),
		productRepo:  sqlite.NewProductRepository(db, logger),
		customerRepo: sqlite.NewCustomerRepository(db, logger),
		employeeRepo: sqlite.NewEmployeeRepository(db, logger),
	}

	brandRepo := sqlite.NewBrandRepository(db, logger)
	env.customers = NewCustomerService(env.customerRepo, env.orderRepo, logger)
	env.orders = NewOrderService(
		env.orderRepo, brandRepo, env.productRepo, env.customerRepo,
		env.employeeRepo, env.customers, pricing.DefaultRateTable(), strict, logger)

	ctx := context.Background()

	env.brand = models.NewBrand("Rihla", "RH", "SAR", 0.15)
	if err := brandRepo.Create(ctx, env.brand); err != nil {
		t.Fatalf("brand Create() failed: %v", err)
	}

	env.duffel = models.NewProduct("SKU-DUF", "Leather Duffel", env.brand.ID, "bags", 850)
	env.duffel.Stock = 10
	env.kit = models.NewProduct("SKU-KIT", "Travel Kit", env.brand.ID, "kits", 180)
	env.kit.Stock = 3
	for _, p := range []*models.Product{env.duffel, env.kit} {
		if err := env.productRepo.Create(ctx, p); err != nil {
			t.Fatalf("product Create() failed: %v", err)
		}
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tempDir)
	}
	return env, cleanup
}

func waitForCounters(t *testing.T, svc OrderService) {
	t.Helper()
	waiter, ok := svc.(interface{ WaitForCounters() })
	if !ok {
		t.Fatal("order service does not expose WaitForCounters")
	}
	waiter.WaitForCounters()
}

func TestCreateOrder_FullWorkflow(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	result, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName:  "Sara Ahmed",
		CustomerEmail: stringPtr("sara@example.com"),
		BrandID:       env.brand.ID,
		Items: []OrderItemRequest{
			{ProductID: env.duffel.ID, Quantity: 2},
			{ProductID: env.kit.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	order := result.Order
	if order.Subtotal != 1880 {
		t.Errorf("Subtotal = %v, want 1880", order.Subtotal)
	}
	if math.Abs(order.VATAmount-282) > 0.01 {
		t.Errorf("VATAmount = %v, want 282", order.VATAmount)
	}
	if math.Abs(order.Total-2162) > 0.01 {
		t.Errorf("Total = %v, want 2162", order.Total)
	}
	if order.Currency != "SAR" {
		t.Errorf("Currency = %s, want SAR (inherited from brand)", order.Currency)
	}
	if order.OrderNumber == "" {
		t.Error("order number was not assigned")
	}
	if len(result.SkippedItems) != 0 {
		t.Errorf("SkippedItems = %v, want none", result.SkippedItems)
	}

	// Prices are frozen from the product catalog
	if order.Items[0].Price != 850 || order.Items[0].ProductName != "Leather Duffel" {
		t.Errorf("line item snapshot = %+v, want frozen duffel data", order.Items[0])
	}

	// Stock decremented
	duffel, err := env.productRepo.GetByID(ctx, env.duffel.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if duffel.Stock != 8 {
		t.Errorf("duffel stock = %d, want 8", duffel.Stock)
	}

	// Customer counters updated post-commit
	waitForCounters(t, env.orders)
	customer, err := env.customerRepo.GetByEmail(ctx, "sara@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	if customer.TotalOrders != 1 {
		t.Errorf("TotalOrders = %d, want 1", customer.TotalOrders)
	}
	if math.Abs(customer.LifetimeValue-2162) > 0.01 {
		t.Errorf("LifetimeValue = %v, want 2162", customer.LifetimeValue)
	}
}

func TestCreateOrder_BrandNotFound(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName: "Nobody",
		BrandID:      "missing-brand",
		Items:        []OrderItemRequest{{ProductID: env.duffel.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("CreateOrder() error = %v, want ErrBrandNotFound", err)
	}

	// No order and no customer should exist
	count, _ := env.orderRepo.Count(context.Background(), nil)
	if count != 0 {
		t.Errorf("order count = %d, want 0 after fatal brand error", count)
	}
}

func TestCreateOrder_SkipsMissingProducts(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	result, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName: "Walk In",
		BrandID:      env.brand.ID,
		Items: []OrderItemRequest{
			{ProductID: env.kit.ID, Quantity: 1},
			{ProductID: "ghost-product", Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	if len(result.Order.Items) != 1 {
		t.Errorf("order has %d items, want 1 (missing product skipped)", len(result.Order.Items))
	}
	if len(result.SkippedItems) != 1 || result.SkippedItems[0] != "ghost-product" {
		t.Errorf("SkippedItems = %v, want [ghost-product]", result.SkippedItems)
	}
	if result.Order.Subtotal != 180 {
		t.Errorf("Subtotal = %v, want 180 (only the kit)", result.Order.Subtotal)
	}
}

func TestCreateOrder_StrictMissingProduct(t *testing.T) {
	env, cleanup := setupWorkflow(t, true)
	defer cleanup()

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName: "Walk In",
		BrandID:      env.brand.ID,
		Items: []OrderItemRequest{
			{ProductID: env.kit.ID, Quantity: 1},
			{ProductID: "ghost-product", Quantity: 5},
		},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("CreateOrder() error = %v, want ErrProductNotFound in strict mode", err)
	}
}

func TestCreateOrder_NoValidProducts(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName: "Walk In",
		BrandID:      env.brand.ID,
		Items:        []OrderItemRequest{{ProductID: "ghost-product", Quantity: 1}},
	})
	if !errors.Is(err, ErrNoValidProducts) {
		t.Errorf("CreateOrder() error = %v, want ErrNoValidProducts", err)
	}
}

func TestCreateOrder_DiscountClampsToZero(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()

	result, err := env.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName: "Bargain Hunter",
		BrandID:      env.brand.ID,
		Items:        []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
		Discount:     10000,
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	if result.Order.Total != 0 {
		t.Errorf("Total = %v, want 0 (clamped)", result.Order.Total)
	}
	if result.Order.Subtotal != 180 {
		t.Errorf("Subtotal = %v, want 180 (unchanged by clamp)", result.Order.Subtotal)
	}
}

func TestCreateOrder_VATRateOverride(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()

	// The request rate wins over the brand default (0.15) and the currency
	// table.
	result, err := env.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName: "Walk In",
		BrandID:      env.brand.ID,
		Items:        []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
		VATRate:      float64Ptr(0.05),
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	if result.Order.VATRate != 0.05 {
		t.Errorf("VATRate = %v, want 0.05 (request override)", result.Order.VATRate)
	}
	if math.Abs(result.Order.VATAmount-9) > 0.01 {
		t.Errorf("VATAmount = %v, want 9", result.Order.VATAmount)
	}
	if math.Abs(result.Order.Total-189) > 0.01 {
		t.Errorf("Total = %v, want 189", result.Order.Total)
	}
}

func TestCreateOrder_OversellFloorsStock(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	// Kit has stock 3; order 5
	_, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName: "Bulk Buyer",
		BrandID:      env.brand.ID,
		Items:        []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	kit, err := env.productRepo.GetByID(ctx, env.kit.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if kit.Stock != 0 {
		t.Errorf("kit stock = %d, want 0 (floored, never negative)", kit.Stock)
	}
}

func TestCreateOrder_EmployeeAchievement(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	employee := models.NewEmployee("Noor Saleh", "noor@example.com", "Sales Lead", "Sales", env.brand.ID)
	if err := env.employeeRepo.Create(ctx, employee); err != nil {
		t.Fatalf("employee Create() failed: %v", err)
	}

	_, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName:         "Sara Ahmed",
		BrandID:              env.brand.ID,
		Items:                []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
		AttributedEmployeeID: &employee.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	waitForCounters(t, env.orders)

	updated, err := env.employeeRepo.GetByID(ctx, employee.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if math.Abs(updated.Achieved-207) > 0.01 {
		t.Errorf("Achieved = %v, want 207 (180 + 15%% VAT)", updated.Achieved)
	}
}

func TestCreateOrder_ReusesCustomerByEmail(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
			CustomerName:  "Sara Ahmed",
			CustomerEmail: stringPtr("sara@example.com"),
			BrandID:       env.brand.ID,
			Items:         []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateOrder() #%d failed: %v", i+1, err)
		}
	}

	count, err := env.customerRepo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("customer count = %d, want 1 (resolution is idempotent)", count)
	}
}

func TestCreateOrder_PlaceholderContactIgnored(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	result, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName:  "Walk In",
		CustomerEmail: stringPtr("n/a"),
		CustomerPhone: stringPtr("-"),
		BrandID:       env.brand.ID,
		Items:         []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}

	// Both contact fields were junk, so this is a walk-in: no customer
	// record is created and the order links to none.
	if result.Order.CustomerID != nil {
		t.Errorf("CustomerID = %v, want nil for placeholder-only contact", *result.Order.CustomerID)
	}
	if result.Order.CustomerName != "Walk In" {
		t.Errorf("CustomerName = %q, want the submitted name", result.Order.CustomerName)
	}
	count, err := env.customerRepo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("customer count = %d, want 0", count)
	}
}

func TestCreateOrder_PhoneOnlyContactCreatesCustomer(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	result, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName:  "Noura",
		CustomerPhone: stringPtr("+966500000009"),
		BrandID:       env.brand.ID,
		Items:         []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}
	if result.Order.CustomerID == nil {
		t.Fatal("CustomerID = nil, want a linked customer for phone-only contact")
	}

	customer, err := env.customerRepo.GetByID(ctx, *result.Order.CustomerID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if customer.Email != nil {
		t.Errorf("Email = %v, want nil", *customer.Email)
	}
	if customer.GetPhone() != "+966500000009" {
		t.Errorf("Phone = %q, want +966500000009", customer.GetPhone())
	}
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	env, cleanup := setupWorkflow(t, false)
	defer cleanup()
	ctx := context.Background()

	result, err := env.orders.CreateOrder(ctx, &CreateOrderRequest{
		CustomerName: "Walk In",
		BrandID:      env.brand.ID,
		Items:        []OrderItemRequest{{ProductID: env.kit.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() failed: %v", err)
	}
	id := result.Order.ID

	// Skipping ahead on the linear path is rejected
	if _, err := env.orders.UpdateOrderStatus(ctx, id, models.OrderStatusShipped); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending -> shipped: error = %v, want ErrInvalidTransition", err)
	}

	// Forward step works
	if _, err := env.orders.UpdateOrderStatus(ctx, id, models.OrderStatusProcessing); err != nil {
		t.Fatalf("pending -> processing failed: %v", err)
	}

	// Cancel from any non-terminal status works
	if _, err := env.orders.UpdateOrderStatus(ctx, id, models.OrderStatusCancelled); err != nil {
		t.Fatalf("processing -> cancelled failed: %v", err)
	}

	// Terminal status permits nothing further
	if _, err := env.orders.UpdateOrderStatus(ctx, id, models.OrderStatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancelled -> pending: error = %v, want ErrInvalidTransition", err)
	}
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
