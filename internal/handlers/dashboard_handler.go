package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/services"
)

// DashboardHandler serves aggregate reporting endpoints
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// @Summary Dashboard metrics
// @Description Headline counts, revenue figures and order status breakdown
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardMetrics
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.dashboardService.GetMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to compute metrics",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// @Summary Revenue trend
// @Description Daily revenue buckets over the requested window
// @Tags dashboard
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {array} models.RevenueBucket
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard/revenue [get]
func (h *DashboardHandler) GetRevenueTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trend, err := h.dashboardService.GetRevenueTrend(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to compute revenue trend",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, trend)
}
