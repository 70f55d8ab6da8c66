package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/services"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary Create a new customer
// @Description Create a new customer in the system
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body services.CreateCustomerRequest true "Customer data"
// @Success 201 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to create customer",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// @Summary List customers
// @Description Get all customers, newest first
// @Tags customers
// @Produce json
// @Success 200 {array} models.Customer
// @Failure 500 {object} ErrorResponse
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list customers",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// @Summary Search customers
// @Description Substring search across customer name, email and phone
// @Tags customers
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {array} models.Customer
// @Failure 400 {object} ErrorResponse
// @Router /customers/search [get]
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	customers, err := h.customerService.SearchCustomers(c.Request.Context(), query, limit)
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

	c.JSON(http.StatusOK, customers)
}

// @Summary Top customers
// @Description Customers ordered by lifetime value
// @Tags customers
// @Produce json
// @Param limit query int false "Limit number of results" default(10)
// @Success 200 {array} models.Customer
// @Failure 500 {object} ErrorResponse
// @Router /customers/top [get]
func (h *CustomerHandler) GetTopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	customers, err := h.customerService.GetTopCustomers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to load top customers",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// @Summary Get a customer
// @Description Get a customer by ID
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Customer not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get customer",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Get a customer with their orders
// @Description Get a customer together with their full order history
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} services.CustomerWithOrders
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id}/orders [get]
func (h *CustomerHandler) GetCustomerWithOrders(c *gin.Context) {
	result, err := h.customerService.GetCustomerWithOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Customer not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to load customer orders",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Public invoice data by customer
// @Description Unauthenticated customer-with-orders lookup for external invoice renderers
// @Tags invoices
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} services.CustomerWithOrders
// @Failure 404 {object} ErrorResponse
// @Router /public/invoice/{customerID} [get]
func (h *CustomerHandler) GetPublicInvoiceData(c *gin.Context) {
	result, err := h.customerService.GetCustomerWithOrders(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Customer not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to load invoice data",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Update a customer
// @Description Apply a partial update to a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param customer body services.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case isNotFoundError(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Customer not found",
				Message: err.Error(),
			})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to update customer",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Delete a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Customer not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to delete customer",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
