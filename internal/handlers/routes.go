package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rihla-backoffice-api/internal/middleware"
	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	BrandService     services.BrandService
	ProductService   services.ProductService
	CustomerService  services.CustomerService
	EmployeeService  services.EmployeeService
	OrderService     services.OrderService
	UserService      services.UserService
	AuthService      services.AuthService
	DashboardService services.DashboardService
	TokenService     *middleware.AuthService

	// LoginRateLimit caps requests per second on the credential endpoints.
	// Zero disables the limiter.
	LoginRateLimit float64
	LoginBurst     int
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	// Create handlers
	brandHandler := NewBrandHandler(config.BrandService)
	productHandler := NewProductHandler(config.ProductService)
	customerHandler := NewCustomerHandler(config.CustomerService)
	employeeHandler := NewEmployeeHandler(config.EmployeeService)
	orderHandler := NewOrderHandler(config.OrderService)
	userHandler := NewUserHandler(config.UserService)
	authHandler := NewAuthHandler(config.AuthService, config.UserService, config.TokenService)
	dashboardHandler := NewDashboardHandler(config.DashboardService)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "rihla-backoffice-api",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (no auth required)
		auth := v1.Group("/auth")
		if config.LoginRateLimit > 0 {
			auth.Use(middleware.RateLimit(config.LoginRateLimit, config.LoginBurst))
		}
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/verify-2fa", authHandler.VerifyTOTP)
			auth.POST("/refresh", authHandler.RefreshToken)

			// Protected auth routes
			authProtected := auth.Group("")
			authProtected.Use(middleware.Authentication(config.TokenService))
			{
				authProtected.GET("/me", authHandler.Me)
				authProtected.POST("/logout", authHandler.Logout)
				authProtected.POST("/setup-2fa", authHandler.SetupTOTP)
				authProtected.POST("/confirm-2fa", authHandler.ConfirmTOTP)
			}
		}

		// Public invoice data for external invoice renderers
		v1.GET("/public/invoice/:customerID", customerHandler.GetPublicInvoiceData)
		v1.GET("/public/invoice-by-order/:orderID", orderHandler.GetPublicInvoiceByOrder)

		// Protected API routes
		api := v1.Group("")
		api.Use(middleware.Authentication(config.TokenService))
		{
			// Brand routes
			brands := api.Group("/brands")
			{
				brands.POST("", middleware.RequirePermission("settings"), brandHandler.CreateBrand)
				brands.GET("", brandHandler.ListBrands)
				brands.GET("/code/:code", brandHandler.GetBrandByCode)
				brands.GET("/:id", brandHandler.GetBrand)
				brands.PUT("/:id", middleware.RequirePermission("settings"), brandHandler.UpdateBrand)
				brands.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), brandHandler.DeleteBrand)
			}

			// Product routes
			products := api.Group("/products")
			products.Use(middleware.RequirePermission("inventory"))
			{
				products.POST("", productHandler.CreateProduct)
				products.GET("", productHandler.ListProducts)
				products.GET("/search", productHandler.SearchProducts)
				products.GET("/low-stock", productHandler.GetLowStockProducts)
				products.GET("/:id", productHandler.GetProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.PATCH("/:id/stock", productHandler.AdjustStock)
				products.DELETE("/:id", middleware.RequirePermission("can_delete"), productHandler.DeleteProduct)
			}

			// Customer routes
			customers := api.Group("/customers")
			customers.Use(middleware.RequirePermission("customers"))
			{
				customers.POST("", customerHandler.CreateCustomer)
				customers.GET("", customerHandler.ListCustomers)
				customers.GET("/search", customerHandler.SearchCustomers)
				customers.GET("/top", customerHandler.GetTopCustomers)
				customers.GET("/:id", customerHandler.GetCustomer)
				customers.GET("/:id/orders", customerHandler.GetCustomerWithOrders)
				customers.PUT("/:id", customerHandler.UpdateCustomer)
				customers.DELETE("/:id", middleware.RequirePermission("can_delete"), customerHandler.DeleteCustomer)
			}

			// Employee routes
			employees := api.Group("/employees")
			employees.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				employees.POST("", employeeHandler.CreateEmployee)
				employees.GET("", employeeHandler.ListEmployees)
				employees.GET("/stats", employeeHandler.GetEmployeeStats)
				employees.GET("/:id", employeeHandler.GetEmployee)
				employees.PUT("/:id", employeeHandler.UpdateEmployee)
				employees.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), employeeHandler.DeleteEmployee)
			}

			// Order routes
			orders := api.Group("/orders")
			orders.Use(middleware.RequirePermission("orders"))
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("", orderHandler.ListOrders)
				orders.GET("/search", orderHandler.SearchOrders)
				orders.GET("/number/:number", orderHandler.GetOrderByNumber)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.PUT("/:id", orderHandler.UpdateOrderStatus)
				orders.DELETE("/:id", middleware.RequirePermission("can_delete"), orderHandler.DeleteOrder)
			}

			// Invoice lookup by order number
			api.GET("/search/invoice", middleware.RequirePermission("orders"), orderHandler.SearchInvoice)

			// Dashboard routes
			dashboard := api.Group("/dashboard")
			dashboard.Use(middleware.RequirePermission("dashboard"))
			{
				dashboard.GET("/metrics", dashboardHandler.GetMetrics)
				dashboard.GET("/revenue", dashboardHandler.GetRevenueTrend)
			}

			// User management routes (admin only)
			users := api.Group("/users")
			users.Use(middleware.RequireRole(models.RoleAdmin))
			{
				users.POST("", userHandler.CreateUser)
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
				users.PUT("/:id", userHandler.UpdateUser)
				users.PUT("/:id/password", userHandler.ChangePassword)
				users.POST("/:id/reset-2fa", authHandler.ResetTOTP)
				users.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}
}
