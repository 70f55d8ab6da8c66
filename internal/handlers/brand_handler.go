package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/services"
)

// BrandHandler handles brand-related HTTP requests
type BrandHandler struct {
	brandService services.BrandService
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brandService services.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// @Summary Create a new brand
// @Description Register a brand with its code, currency and VAT rate
// @Tags brands
// @Accept json
// @Produce json
// @Param brand body services.CreateBrandRequest true "Brand data"
// @Success 201 {object} models.Brand
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /brands [post]
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req services.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	brand, err := h.brandService.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		switch {
		case isConflictError(err):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "Brand code already exists",
				Message: err.Error(),
			})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to create brand",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, brand)
}

// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {array} models.Brand
// @Failure 500 {object} ErrorResponse
// @Router /brands [get]
func (h *BrandHandler) ListBrands(c *gin.Context) {
	brands, err := h.brandService.ListBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list brands",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, brands)
}

// @Summary Get a brand
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} models.Brand
// @Failure 404 {object} ErrorResponse
// @Router /brands/{id} [get]
func (h *BrandHandler) GetBrand(c *gin.Context) {
	brand, err := h.brandService.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Brand not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get brand",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, brand)
}

// @Summary Get a brand by code
// @Description Look up a brand by its short code, e.g. RHL
// @Tags brands
// @Produce json
// @Param code path string true "Brand code"
// @Success 200 {object} models.Brand
// @Failure 404 {object} ErrorResponse
// @Router /brands/code/{code} [get]
func (h *BrandHandler) GetBrandByCode(c *gin.Context) {
	brand, err := h.brandService.GetBrandByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Brand not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get brand",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, brand)
}

// @Summary Update a brand
// @Tags brands
// @Accept json
// @Produce json
// @Param id path string true "Brand ID"
// @Param brand body services.UpdateBrandRequest true "Fields to update"
// @Success 200 {object} models.Brand
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /brands/{id} [put]
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	var req services.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	brand, err := h.brandService.UpdateBrand(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case isNotFoundError(err):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Brand not found",
				Message: err.Error(),
			})
		case isConflictError(err):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "Brand code already exists",
				Message: err.Error(),
			})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Failed to update brand",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, brand)
}

// @Summary Delete a brand
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /brands/{id} [delete]
func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	if err := h.brandService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Brand not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to delete brand",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
