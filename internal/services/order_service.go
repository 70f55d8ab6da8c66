package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/pricing"
	"rihla-backoffice-api/internal/repositories"
)

// orderService implements the OrderService interface
type orderService struct {
	orderRepo    repositories.OrderRepository
	brandRepo    repositories.BrandRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	employeeRepo repositories.EmployeeRepository
	customers    CustomerService
	rateTable    *pricing.RateTable

	// strictProducts makes a missing product fail the whole order instead
	// of skipping the line item.
	strictProducts bool

	validator *validator.Validate
	logger    *logrus.Logger

	// counters tracks the in-flight post-commit counter updates so tests
	// and shutdown can wait for them.
	counters sync.WaitGroup
}

// NewOrderService creates a new order service instance
func NewOrderService(
	orderRepo repositories.OrderRepository,
	brandRepo repositories.BrandRepository,
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	employeeRepo repositories.EmployeeRepository,
	customers CustomerService,
	rateTable *pricing.RateTable,
	strictProducts bool,
	logger *logrus.Logger,
) OrderService {
	if logger == nil {
		logger = logrus.New()
	}
	if rateTable == nil {
		rateTable = pricing.DefaultRateTable()
	}
	return &orderService{
		orderRepo:      orderRepo,
		brandRepo:      brandRepo,
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		employeeRepo:   employeeRepo,
		customers:      customers,
		rateTable:      rateTable,
		strictProducts: strictProducts,
		validator:      validator.New(),
		logger:         logger,
	}
}

// CreateOrder runs the full order workflow: brand lookup, customer
// resolution, product resolution with price freezing, pricing, and
// persistence. The order insert, the order-number assignment, and the stock
// decrements for every line item happen in one storage transaction, so no
// committed order can leave inventory untouched.
//
// The counter updates (customer lifetime value, employee achievement) run
// asynchronously after the order is committed; a failure there is logged but
// never fails the created order.
func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResult, error) {
	if req == nil {
		return nil, fmt.Errorf("create order request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Brand lookup is fatal: no order exists without a valid brand.
	brand, err := s.brandRepo.GetByID(ctx, req.BrandID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("brand %s: %w", req.BrandID, ErrBrandNotFound)
		}
		return nil, fmt.Errorf("brand lookup failed: %w", err)
	}

	customer, err := s.customers.Resolve(ctx, CustomerContact{
		Name:    req.CustomerName,
		Email:   derefOr(req.CustomerEmail, ""),
		Phone:   derefOr(req.CustomerPhone, ""),
		Address: derefOr(req.CustomerAddress, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("customer resolution failed: %w", err)
	}

	items, skipped, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoValidProducts
	}

	currency := strings.ToUpper(strings.TrimSpace(derefOr(req.Currency, brand.Currency)))
	applyVAT := true
	if req.ApplyVAT != nil {
		applyVAT = *req.ApplyVAT
	}

	// Rate precedence: request override, then brand default, then the
	// per-currency table.
	vatRate := brand.VATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	} else if vatRate <= 0 {
		vatRate = s.rateTable.Rate(currency)
	}

	lineInputs := make([]pricing.LineInput, len(items))
	for i, item := range items {
		lineInputs[i] = pricing.LineInput{UnitPrice: item.Price, Quantity: item.Quantity}
	}

	totals, err := pricing.Compute(lineInputs, vatRate, applyVAT, req.ShippingCharges, req.Discount)
	if err != nil {
		return nil, fmt.Errorf("pricing failed: %w", err)
	}

	order := models.NewOrder(brand.ID, strings.TrimSpace(req.CustomerName))
	order.BrandName = brand.Name
	if customer != nil {
		order.CustomerName = customer.Name
		order.CustomerID = &customer.ID
		order.CustomerEmail = customer.Email
		order.CustomerPhone = customer.Phone
	}
	order.Items = items
	order.Subtotal = totals.Subtotal
	order.VATRate = vatRate
	order.VATAmount = totals.VATAmount
	order.ApplyVAT = applyVAT
	order.ShippingCharges = req.ShippingCharges
	order.Discount = req.Discount
	order.Total = totals.Total
	order.Currency = currency
	order.ShippingAddress = req.ShippingAddress
	order.Notes = req.Notes
	order.CreatedByUserID = req.CreatedByUserID
	order.AttributedEmployeeID = req.AttributedEmployeeID
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}

	if totals.NegativeClamped {
		s.logger.WithFields(logrus.Fields{
			"subtotal": totals.Subtotal,
			"discount": req.Discount,
		}).Warn("Order total clamped to zero; discount exceeded charges")
	}

	if err := s.orderRepo.CreateWithNumber(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	customerID := ""
	if customer != nil {
		customerID = customer.ID
	}
	s.updateCounters(order, customerID)

	return &OrderResult{Order: order, SkippedItems: skipped}, nil
}

// resolveItems freezes product name, price and SKU into line items. Missing
// products are skipped in permissive mode and fatal in strict mode.
func (s *orderService) resolveItems(ctx context.Context, reqs []OrderItemRequest) ([]models.OrderItem, []string, error) {
	var items []models.OrderItem
	var skipped []string

	for _, itemReq := range reqs {
		product, err := s.productRepo.GetByID(ctx, itemReq.ProductID)
		if err != nil {
			if repositories.IsNotFound(err) {
				if s.strictProducts {
					return nil, nil, fmt.Errorf("product %s: %w", itemReq.ProductID, ErrProductNotFound)
				}
				skipped = append(skipped, itemReq.ProductID)
				s.logger.WithField("product_id", itemReq.ProductID).Warn("Skipping unknown product in order")
				continue
			}
			return nil, nil, fmt.Errorf("product lookup failed: %w", err)
		}

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    itemReq.Quantity,
			Price:       product.UnitPrice,
			SKU:         product.SKU,
		})
	}

	return items, skipped, nil
}

// updateCounters schedules the post-commit counter updates: customer order
// stats and, when an employee is attributed, their yearly achievement.
// customerID is empty for walk-in orders with no linked customer.
func (s *orderService) updateCounters(order *models.Order, customerID string) {
	total := order.Total
	createdAt := order.CreatedAt
	employeeID := order.AttributedEmployeeID
	orderID := order.ID

	s.counters.Add(1)
	go func() {
		defer s.counters.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if customerID != "" {
			if err := s.customerRepo.IncrementOrderStats(ctx, customerID, total, createdAt); err != nil {
				s.logger.WithFields(logrus.Fields{
					"order_id":    orderID,
					"customer_id": customerID,
					"error":       err.Error(),
				}).Error("Customer counter update failed")
			}
		}

		if employeeID != nil {
			if err := s.employeeRepo.CreditAchievement(ctx, *employeeID, total, createdAt); err != nil {
				s.logger.WithFields(logrus.Fields{
					"order_id":    orderID,
					"employee_id": *employeeID,
					"error":       err.Error(),
				}).Error("Employee achievement update failed")
			}
		}
	}()
}

// WaitForCounters blocks until all scheduled counter updates have finished
func (s *orderService) WaitForCounters() {
	s.counters.Wait()
}

// GetOrder retrieves an order by ID with its line items
func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("order ID cannot be empty")
	}
	return s.orderRepo.GetByID(ctx, id)
}

// GetOrderByNumber retrieves an order by its human-readable order number
func (s *orderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("order number cannot be empty")
	}
	return s.orderRepo.GetByNumber(ctx, orderNumber)
}

// ListOrders retrieves orders matching the filters, newest first
func (s *orderService) ListOrders(ctx context.Context, filters *OrderFilters) ([]*models.Order, error) {
	repoFilters := make(map[string]interface{})
	if filters != nil {
		if filters.BrandID != "" {
			repoFilters["brand_id"] = filters.BrandID
		}
		if filters.CustomerID != "" {
			repoFilters["customer_id"] = filters.CustomerID
		}
		if filters.Status != "" {
			repoFilters["status"] = filters.Status
		}
	}
	return s.orderRepo.List(ctx, repoFilters)
}

// SearchOrders matches orders by order number, customer name or email
func (s *orderService) SearchOrders(ctx context.Context, query string, limit int) ([]*models.Order, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	return s.orderRepo.Search(ctx, query, limit)
}

// UpdateOrderStatus moves an order along the fulfilment path. Invalid
// transitions, including any move out of a terminal status, are rejected.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move order from %s to %s: %w", order.Status, status, ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = status
	order.UpdateTimestamp()
	return order, nil
}

// DeleteOrder deletes an order and its line items
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("order ID cannot be empty")
	}
	return s.orderRepo.Delete(ctx, id)
}

// derefOr returns the pointed-to string or a default
func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
