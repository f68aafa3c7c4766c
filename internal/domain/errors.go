package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidType       = errors.New("type must be 'expense' or 'income'")
	ErrStartDateRequired = errors.New("start date is required")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
)

// Validation constants
const (
	MaxPaymentNameLength = 255
)
