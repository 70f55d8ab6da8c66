package services

import (
	"context"
	"fmt"
	"time"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

type dashboardService struct {
	orderRepo    repositories.OrderRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	orderRepo repositories.OrderRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
) DashboardService {
	return &dashboardService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// GetMetrics aggregates the home-screen snapshot
func (s *dashboardService) GetMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	metrics := &models.DashboardMetrics{}

	totalOrders, err := s.orderRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	metrics.TotalOrders = totalOrders

	totalRevenue, err := s.orderRepo.RevenueSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	metrics.TotalRevenue = totalRevenue

	totalCustomers, err := s.customerRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	metrics.TotalCustomers = totalCustomers

	totalProducts, err := s.productRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	metrics.TotalProducts = totalProducts

	byStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	metrics.OrdersByStatus = byStatus

	lowStock, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock products: %w", err)
	}
	metrics.LowStockCount = int64(len(lowStock))

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	revenueToday, err := s.orderRepo.RevenueSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	metrics.RevenueToday = revenueToday

	revenueMonth, err := s.orderRepo.RevenueSince(ctx, startOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to sum month's revenue: %w", err)
	}
	metrics.RevenueMonth = revenueMonth

	return metrics, nil
}

// GetRevenueTrend returns daily revenue buckets for the trailing window
func (s *dashboardService) GetRevenueTrend(ctx context.Context, days int) ([]models.RevenueBucket, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	since := time.Now().AddDate(0, 0, -days)
	return s.orderRepo.RevenueByDay(ctx, since)
}
