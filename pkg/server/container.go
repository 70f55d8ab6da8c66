package server

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"rihla-backoffice-api/internal/config"
	"rihla-backoffice-api/internal/database"
	"rihla-backoffice-api/internal/middleware"
	"rihla-backoffice-api/internal/pricing"
	"rihla-backoffice-api/internal/repositories/sqlite"
	"rihla-backoffice-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	BrandService     services.BrandService
	ProductService   services.ProductService
	CustomerService  services.CustomerService
	EmployeeService  services.EmployeeService
	OrderService     services.OrderService
	UserService      services.UserService
	AuthService      services.AuthService
	DashboardService services.DashboardService
	TokenService     *middleware.AuthService

	connection *database.ConnectionManager
}

// NewContainer creates a new dependency injection container. It opens the
// database, applies pending migrations and wires repositories into services.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := logrus.New()
	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	connection := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath:    cfg.Database.ConnectionString,
		MigrationsPath:  "./migrations",
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Hour,
		Logger:          logger,
	})
	if err := connection.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := connection.GetDB()

	// Repositories
	brandRepo := sqlite.NewBrandRepository(db, logger)
	productRepo := sqlite.NewProductRepository(db, logger)
	customerRepo := sqlite.NewCustomerRepository(db, logger)
	employeeRepo := sqlite.NewEmployeeRepository(db, logger)
	orderRepo := sqlite.NewOrderRepository(db, logger)
	userRepo := sqlite.NewUserRepository(db, logger)

	// Token issuing and validation
	tokenService := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
	})

	// Services
	rateTable := pricing.NewRateTable(cfg.VAT.Rates, cfg.VAT.FallbackRate)
	customerService := services.NewCustomerService(customerRepo, orderRepo, logger)

	container := &Container{
		Config:          cfg,
		Logger:          logger,
		BrandService:    services.NewBrandService(brandRepo),
		ProductService:  services.NewProductService(productRepo, brandRepo),
		CustomerService: customerService,
		EmployeeService: services.NewEmployeeService(employeeRepo, brandRepo),
		OrderService: services.NewOrderService(
			orderRepo,
			brandRepo,
			productRepo,
			customerRepo,
			employeeRepo,
			customerService,
			rateTable,
			cfg.Orders.StrictProducts,
			logger,
		),
		UserService:      services.NewUserService(userRepo),
		AuthService:      services.NewAuthService(userRepo, tokenService, cfg.Auth.TOTPIssuer, cfg.Auth.RequireTwoFA, logger),
		DashboardService: services.NewDashboardService(orderRepo, customerRepo, productRepo),
		TokenService:     tokenService,
		connection:       connection,
	}

	return container, nil
}

// DB exposes the underlying connection for health checks
func (c *Container) DB() *sql.DB {
	return c.connection.GetDB()
}

// HealthCheck verifies the database answers queries
func (c *Container) HealthCheck() error {
	return c.connection.HealthCheck()
}

// Close cleans up all resources. It waits for in-flight counter updates from
// the order workflow before closing the database.
func (c *Container) Close() error {
	if waiter, ok := c.OrderService.(interface{ WaitForCounters() }); ok {
		waiter.WaitForCounters()
	}

	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
