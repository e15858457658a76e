package services

import "errors"

// Error taxonomy for the credit/payout core. Callers classify with errors.Is
// and map to HTTP statuses at the handler layer.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUpstreamPayment = errors.New("payment gateway error")
)
