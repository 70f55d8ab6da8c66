package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/config"
	"rihla-backoffice-api/internal/handlers"
	"rihla-backoffice-api/internal/middleware"
	"rihla-backoffice-api/pkg/server"
)

// @title Rihla Back Office API
// @version 1.0
// @description Multi-brand retail back office: orders, inventory, customers and sales reporting

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependencies
	container, err := server.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogger())

	// API routes
	handlers.SetupRoutes(router, &handlers.RouterConfig{
		BrandService:     container.BrandService,
		ProductService:   container.ProductService,
		CustomerService:  container.CustomerService,
		EmployeeService:  container.EmployeeService,
		OrderService:     container.OrderService,
		UserService:      container.UserService,
		AuthService:      container.AuthService,
		DashboardService: container.DashboardService,
		TokenService:     container.TokenService,
		LoginRateLimit:   cfg.Auth.LoginRateLimit,
		LoginBurst:       cfg.Auth.LoginBurst,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	container.Logger.WithField("port", cfg.Port).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	container.Logger.Info("Server exited")
}
