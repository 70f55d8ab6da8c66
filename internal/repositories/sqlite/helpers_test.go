package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const testSchema = `
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

	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		employee_id TEXT,
		perm_dashboard BOOLEAN NOT NULL DEFAULT 0,
		perm_orders BOOLEAN NOT NULL DEFAULT 0,
		perm_inventory BOOLEAN NOT NULL DEFAULT 0,
		perm_customers BOOLEAN NOT NULL DEFAULT 0,
		perm_analytics BOOLEAN NOT NULL DEFAULT 0,
		perm_settings BOOLEAN NOT NULL DEFAULT 0,
		perm_can_create BOOLEAN NOT NULL DEFAULT 0,
		perm_can_edit BOOLEAN NOT NULL DEFAULT 0,
		perm_can_delete BOOLEAN NOT NULL DEFAULT 0,
		two_factor_secret TEXT,
		two_factor_enabled BOOLEAN NOT NULL DEFAULT 0,
		last_login DATETIME,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
`

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sqlite_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tempDir, "test.db")
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tempDir)
	}

	return db, cleanup
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func stringPtr(s string) *string {
	return &s
}
