package handlers

import (
	"errors"
	"strings"

	"rihla-backoffice-api/internal/repositories"
	"rihla-backoffice-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// isValidationError checks if an error is a validation error
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	if repositories.IsValidation(err) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "validation") ||
		strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "required") ||
		strings.Contains(errMsg, "format")
}

// isNotFoundError checks if an error is a not found error
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return repositories.IsNotFound(err) ||
		errors.Is(err, services.ErrBrandNotFound) ||
		errors.Is(err, services.ErrProductNotFound)
}

// isConflictError checks if an error reflects a state conflict
func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	return repositories.IsDuplicate(err) ||
		errors.Is(err, services.ErrInvalidTransition)
}
