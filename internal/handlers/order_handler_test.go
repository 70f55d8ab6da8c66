package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/services"
)

// stubOrderService returns canned values so handler tests can pin the HTTP
// contract without a database.
type stubOrderService struct {
	createResult *services.OrderResult
	createErr    error
	order        *models.Order
	getErr       error
	statusSeen   models.OrderStatus
	statusErr    error
}

func (s *stubOrderService) CreateOrder(ctx context.Context, req *services.CreateOrderRequest) (*services.OrderResult, error) {
	return s.createResult, s.createErr
}

func (s *stubOrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderService) ListOrders(ctx context.Context, filters *services.OrderFilters) ([]*models.Order, error) {
	return nil, nil
}

func (s *stubOrderService) SearchOrders(ctx context.Context, query string, limit int) ([]*models.Order, error) {
	return nil, nil
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	s.statusSeen = status
	return s.order, s.statusErr
}

func (s *stubOrderService) DeleteOrder(ctx context.Context, id string) error {
	return nil
}

func stubOrder() *models.Order {
	order := models.NewOrder("brand-1", "Sara Ahmed")
	order.OrderNumber = "ORD-260828-0001"
	order.Subtotal = 1880
	order.VATAmount = 282
	order.Total = 2162
	return order
}

func orderRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewOrderHandler(svc)

	router := gin.New()
	router.POST("/orders", handler.CreateOrder)
	router.PUT("/orders/:id", handler.UpdateOrderStatus)
	router.GET("/search/invoice", handler.SearchInvoice)
	return router
}

const createOrderBody = `{
	"customer_name": "Sara Ahmed",
	"brand_id": "brand-1",
	"items": [{"product_id": "prod-1", "quantity": 2}]
}`

func TestOrderHandler_CreateOrder_RespondsWithOrder(t *testing.T) {
	svc := &stubOrderService{
		createResult: &services.OrderResult{
			Order:        stubOrder(),
			SkippedItems: []string{"ghost-product"},
		},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	// The body is the persisted order itself, not a wrapper around it.
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if _, wrapped := body["order"]; wrapped {
		t.Error("response wraps the order; want the order fields at the top level")
	}
	if body["order_number"] != "ORD-260828-0001" {
		t.Errorf("order_number = %v, want ORD-260828-0001", body["order_number"])
	}
	if body["total"] != 2162.0 {
		t.Errorf("total = %v, want 2162", body["total"])
	}
}

func TestOrderHandler_CreateOrder_NoValidProducts(t *testing.T) {
	svc := &stubOrderService{
		createErr: fmt.Errorf("order rejected: %w", services.ErrNoValidProducts),
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if body.Error == "" {
		t.Error("error field is empty, want a message")
	}
}

func TestOrderHandler_CreateOrder_BrandNotFound(t *testing.T) {
	svc := &stubOrderService{
		createErr: fmt.Errorf("brand missing-brand: %w", services.ErrBrandNotFound),
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestOrderHandler_UpdateOrderStatus_QueryParam(t *testing.T) {
	svc := &stubOrderService{order: stubOrder()}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/orders/order-1?status=processing", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.statusSeen != models.OrderStatusProcessing {
		t.Errorf("service received status %q, want processing", svc.statusSeen)
	}
}

func TestOrderHandler_UpdateOrderStatus_MissingParam(t *testing.T) {
	svc := &stubOrderService{order: stubOrder()}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/orders/order-1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if svc.statusSeen != "" {
		t.Errorf("service was called with status %q, want no call", svc.statusSeen)
	}
}

func TestOrderHandler_UpdateOrderStatus_InvalidTransition(t *testing.T) {
	svc := &stubOrderService{
		statusErr: fmt.Errorf("cannot move order from completed to pending: %w", services.ErrInvalidTransition),
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/orders/order-1?status=pending", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestOrderHandler_SearchInvoice(t *testing.T) {
	svc := &stubOrderService{order: stubOrder()}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search/invoice?order_number=ORD-260828-0001", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if body["order_number"] != "ORD-260828-0001" {
		t.Errorf("order_number = %v, want ORD-260828-0001", body["order_number"])
	}
}

func TestOrderHandler_SearchInvoice_MissingNumber(t *testing.T) {
	svc := &stubOrderService{order: stubOrder()}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search/invoice", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
