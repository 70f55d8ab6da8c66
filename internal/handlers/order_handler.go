package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/middleware"
	"rihla-backoffice-api/internal/models"
	"rihla-backoffice-api/internal/services"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// @Summary Create a new order
// @Description Run the order workflow: resolve the customer, freeze product prices, compute totals and assign an order number
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.CreateOrderRequest true "Order data"
// @Success 201 {object} models.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if userID, ok := middleware.UserIDFromContext(c); ok {
		req.CreatedByUserID = &userID
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		switch {
		case isNotFoundError(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Referenced entity not found",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrNoValidProducts):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Order has no valid products",
				Message: err.Error(),
			})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to create order",
				Message: err.Error(),
			})
		}
		return
	}

	// The response is the persisted order itself; unresolvable products were
	// already logged item by item during resolution.
	c.JSON(http.StatusCreated, result.Order)
}

// @Summary List orders
// @Description Get orders with optional filters, newest first
// @Tags orders
// @Produce json
// @Param brand_id query string false "Filter by brand"
// @Param customer_id query string false "Filter by customer"
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Order
// @Failure 500 {object} ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filters services.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list orders",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// @Summary Search orders
// @Description Match orders by order number, customer name or customer email
// @Tags orders
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {array} models.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders/search [get]
func (h *OrderHandler) SearchOrders(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := h.orderService.SearchOrders(c.Request.Context(), query, limit)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid search query",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Search failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// @Summary Get an order
// @Description Get an order by ID with its line items
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Order not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary Get an order by number
// @Description Look up an order by its human-readable order number, for invoice views
// @Tags orders
// @Produce json
// @Param number path string true "Order number"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/number/{number} [get]
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Order not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary Find an invoice
// @Description Look up the order behind an invoice by its order number
// @Tags invoices
// @Produce json
// @Param order_number query string true "Order number"
// @Success 200 {object} models.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /search/invoice [get]
func (h *OrderHandler) SearchInvoice(c *gin.Context) {
	number := c.Query("order_number")
	if number == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Missing order number",
			Message: "the order_number query parameter is required",
		})
		return
	}

	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Invoice not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to find invoice",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary Public invoice by order
// @Description Unauthenticated order lookup for external invoice renderers
// @Tags invoices
// @Produce json
// @Param orderID path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} ErrorResponse
// @Router /public/invoice-by-order/{orderID} [get]
func (h *OrderHandler) GetPublicInvoiceByOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Invoice not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to load invoice",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary Update order status
// @Description Move an order along the fulfilment path. Invalid transitions are rejected.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Param status query string true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id} [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Missing status",
			Message: "the status query parameter is required",
		})
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		switch {
		case isNotFoundError(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Order not found",
				Message: err.Error(),
			})
		case isConflictError(err):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "Invalid status transition",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to update order status",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary Delete an order
// @Description Delete an order and its line items
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Order not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to delete order",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
