package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPaymentDisabled = errors.New("payment provider is not configured")
	ErrCartFull        = errors.New("cart is full")
)

// ValidationError is returned for a missing or malformed form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps every failure coming out of the storage backend.
// The message is the backend's own.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type PaymentProviderError struct {
	Provider string
	Err      error
}

func (e *PaymentProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %v", e.Provider, e.Err)
}

func (e *PaymentProviderError) Unwrap() error { return e.Err }
