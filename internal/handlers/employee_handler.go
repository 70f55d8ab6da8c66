package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/services"
)

// EmployeeHandler handles employee-related HTTP requests
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// @Summary Create a new employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body services.CreateEmployeeRequest true "Employee data"
// @Success 201 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		switch {
		case isNotFoundError(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Brand not found",
				Message: err.Error(),
			})
		case isConflictError(err):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "Employee email already exists",
				Message: err.Error(),
			})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to create employee",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// @Summary List employees
// @Description Get employees with optional brand, department and status filters
// @Tags employees
// @Produce json
// @Param brand_id query string false "Filter by brand"
// @Param department query string false "Filter by department"
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Employee
// @Failure 500 {object} ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var filters services.EmployeeFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return
	}

	employees, err := h.employeeService.ListEmployees(c.Request.Context(), &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list employees",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, employees)
}

// @Summary Workforce stats
// @Description Target attainment summary across all employees
// @Tags employees
// @Produce json
// @Success 200 {object} services.EmployeeStats
// @Failure 500 {object} ErrorResponse
// @Router /employees/stats [get]
func (h *EmployeeHandler) GetEmployeeStats(c *gin.Context) {
	stats, err := h.employeeService.GetEmployeeStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to compute employee stats",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Get an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Employee not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get employee",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, employee)
}

// @Summary Update an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param employee body services.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} models.Employee
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case isNotFoundError(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Employee not found",
				Message: err.Error(),
			})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to update employee",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, employee)
}

// @Summary Delete an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Employee not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to delete employee",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
