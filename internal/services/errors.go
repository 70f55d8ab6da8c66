package services

import "errors"

// Domain errors surfaced by the order workflow. Handlers map these to HTTP
// status codes.
var (
	// ErrBrandNotFound is returned when the order references a brand that
	// does not exist. The order is never created.
	ErrBrandNotFound = errors.New("brand not found")

	// ErrNoValidProducts is returned when none of the requested line items
	// resolved to an existing product.
	ErrNoValidProducts = errors.New("no valid products in order")

	// ErrProductNotFound is returned in strict mode when any requested
	// product is missing.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidTransition is returned when an order status change is not
	// allowed from the current status.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrInvalidCredentials is returned on failed login attempts. It is
	// deliberately the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when a deactivated user tries to log in
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInvalidTOTP is returned when the submitted one-time code does not
	// verify against the stored secret.
	ErrInvalidTOTP = errors.New("invalid one-time code")
)
