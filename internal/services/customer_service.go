package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/repositories"
)

// placeholderValues are junk strings storefront forms submit in place of a
// real value. Sanitization treats them as absent.
var placeholderValues = map[string]struct{}{
	"":          {},
	"-":         {},
	"n/a":       {},
	"none":      {},
	"null":      {},
	"undefined": {},
}

// SanitizeContactValue trims a submitted contact field and discards
// placeholder junk. Returns the cleaned value and whether it is usable.
func SanitizeContactValue(value string) (string, bool) {
	cleaned := strings.TrimSpace(value)
	if _, junk := placeholderValues[strings.ToLower(cleaned)]; junk {
		return "", false
	}
	return cleaned, true
}

// customerService implements the CustomerService interface
type customerService struct {
	customerRepo repositories.CustomerRepository
	orderRepo    repositories.OrderRepository
	validator    *validator.Validate
	logger       *logrus.Logger
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(
	customerRepo repositories.CustomerRepository,
	orderRepo repositories.OrderRepository,
	logger *logrus.Logger,
) CustomerService {
	if logger == nil {
		logger = logrus.New()
	}
	return &customerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		validator:    validator.New(),
		logger:       logger,
	}
}

// CreateCustomer creates a new customer
func (s *customerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	if req == nil {
		return nil, fmt.Errorf("create customer request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer := models.NewCustomer(strings.TrimSpace(req.Name))
	if req.Email != nil {
		customer.SetEmail(*req.Email)
	}
	if req.Phone != nil {
		customer.SetPhone(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.CustomerType != nil {
		customer.CustomerType = *req.CustomerType
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *customerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("customer ID cannot be empty")
	}
	return s.customerRepo.GetByID(ctx, id)
}

// UpdateCustomer applies a partial update to a customer
func (s *customerService) UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error) {
	if req == nil {
		return nil, fmt.Errorf("update customer request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		customer.SetEmail(*req.Email)
	}
	if req.Phone != nil {
		customer.SetPhone(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.CustomerType != nil {
		customer.CustomerType = *req.CustomerType
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// DeleteCustomer deletes a customer by ID
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("customer ID cannot be empty")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers retrieves all customers
func (s *customerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, nil)
}

// SearchCustomers performs a substring search on customer data
func (s *customerService) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	return s.customerRepo.Search(ctx, query, limit)
}

// GetTopCustomers retrieves customers ordered by lifetime value
func (s *customerService) GetTopCustomers(ctx context.Context, limit int) ([]*models.Customer, error) {
	return s.customerRepo.GetTopCustomers(ctx, limit)
}

// GetCustomerWithOrders retrieves a customer together with their order history
func (s *customerService) GetCustomerWithOrders(ctx context.Context, id string) (*CustomerWithOrders, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.GetByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for customer %s: %w", id, err)
	}

	return &CustomerWithOrders{Customer: customer, Orders: orders}, nil
}

// Resolve finds or creates the customer for an incoming order.
//
// Lookup order is email first, then phone. Placeholder contact values are
// discarded before lookup, so "-" or "n/a" never matches or gets stored.
// When nothing matches, a new customer is created with whatever sanitized
// contact data survived. Resolution is idempotent for the same contact data.
func (s *customerService) Resolve(ctx context.Context, contact CustomerContact) (*models.Customer, error) {
	name, ok := SanitizeContactValue(contact.Name)
	if !ok {
		return nil, fmt.Errorf("customer name is required")
	}

	email, hasEmail := SanitizeContactValue(contact.Email)
	phone, hasPhone := SanitizeContactValue(contact.Phone)
	address, hasAddress := SanitizeContactValue(contact.Address)

	// A bare name with no contact info is a walk-in: the order proceeds
	// without a linked customer record.
	if !hasEmail && !hasPhone {
		return nil, nil
	}

	if hasEmail {
		email = strings.ToLower(email)
		customer, err := s.customerRepo.GetByEmail(ctx, email)
		if err == nil {
			return customer, nil
		}
		if !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("customer lookup by email failed: %w", err)
		}
	}

	if hasPhone {
		customer, err := s.customerRepo.GetByPhone(ctx, phone)
		if err == nil {
			return customer, nil
		}
		if !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("customer lookup by phone failed: %w", err)
		}
	}

	customer := models.NewCustomer(name)
	if hasEmail {
		customer.SetEmail(email)
	}
	if hasPhone {
		customer.SetPhone(phone)
	}
	if hasAddress {
		customer.Address = &address
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"has_email":   hasEmail,
		"has_phone":   hasPhone,
	}).Info("Customer created from order contact")

	return customer, nil
}
