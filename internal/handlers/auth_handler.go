package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rihla-backoffice-api/internal/middleware"
	"rihla-backoffice-api/internal/services"
)

// AuthHandler handles login, token refresh and two-factor flows
type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
	tokens      *middleware.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, userService services.UserService, tokens *middleware.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		tokens:      tokens,
	}
}

// @Summary Log in
// @Description Verify credentials. The response state tells the client whether a token was issued, a 2FA code is required, or 2FA setup must be completed first.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Email and password"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Verify a one-time code
// @Description Complete a login that was answered with a 2FA challenge
// @Tags auth
// @Accept json
// @Produce json
// @Param verification body services.VerifyTOTPRequest true "Email and 6-digit code"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/verify-2fa [post]
func (h *AuthHandler) VerifyTOTP(c *gin.Context) {
	var req services.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.VerifyTOTP(c.Request.Context(), &req)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ConfirmTOTPRequest is the payload for enabling two-factor on the
// authenticated account
type ConfirmTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// @Summary Confirm 2FA setup
// @Description Verify the first code from the authenticator app and enable two-factor on the account
// @Tags auth
// @Accept json
// @Produce json
// @Param confirmation body ConfirmTOTPRequest true "6-digit code"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/confirm-2fa [post]
func (h *AuthHandler) ConfirmTOTP(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "missing authentication context",
		})
		return
	}

	var req ConfirmTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ConfirmTOTP(c.Request.Context(), userID, req.Code); err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Regenerate the 2FA secret
// @Description Issue a fresh TOTP secret for the authenticated account. Two-factor stays disabled until the new secret is confirmed.
// @Tags auth
// @Produce json
// @Success 200 {object} services.TOTPSetup
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/setup-2fa [post]
func (h *AuthHandler) SetupTOTP(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "missing authentication context",
		})
		return
	}

	setup, err := h.authService.SetupTOTP(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to set up two-factor",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, setup)
}

// @Summary Refresh the access token
// @Description Exchange a valid bearer token for a fresh one
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "missing bearer token",
		})
		return
	}

	refreshed, err := h.tokens.RefreshToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": refreshed})
}

// @Summary Log out
// @Description Tokens are stateless, so logout is client-side; the endpoint exists so clients have a uniform flow.
// @Tags auth
// @Produce json
// @Success 204
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// @Summary Reset a user's two-factor secret
// @Description Admin action: issue a fresh TOTP secret for another account and disable two-factor until it is confirmed again
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} services.TOTPSetup
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/reset-2fa [post]
func (h *AuthHandler) ResetTOTP(c *gin.Context) {
	setup, err := h.authService.SetupTOTP(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "User not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to reset two-factor",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, setup)
}

// @Summary Current user
// @Description Return the profile of the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "missing authentication context",
		})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if isNotFoundError(err) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Unauthorized",
				Message: "account no longer exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to load user",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidTOTP):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Authentication failed",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "Account disabled",
			Message: err.Error(),
		})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Authentication error",
			Message: err.Error(),
		})
	}
}
