package invoice

import (
	"errors"
	"fmt"
)

// Common invoice errors
var (
	// ErrInvoiceNotFound is returned when an invoice id does not resolve.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrItemNotFound is returned when an item id is not on the invoice.
	ErrItemNotFound = errors.New("invoice item not found")

	// ErrPaymentNotFound is returned when a payment id is not on the invoice.
	ErrPaymentNotFound = errors.New("payment not found")
)

// InvoiceError wraps a failed invoice operation with the invoice involved.
type InvoiceError struct {
	// Op is the operation that failed (e.g. "Save", "PurgeExpired").
	Op string

	// InvoiceID identifies the invoice, if known.
	InvoiceID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *InvoiceError) Error() string {
	if e.InvoiceID != "" {
		return fmt.Sprintf("invoice: %s failed (invoice: %s): %v", e.Op, e.InvoiceID, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *InvoiceError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid invoice data.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
