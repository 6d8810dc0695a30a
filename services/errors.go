package services

import (
	"errors"
	"fmt"
)

// Domain errors. Controllers translate these to HTTP statuses; services never
// write responses themselves.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrCartItemNotFound     = errors.New("product not in cart")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrOutOfStock = errors.New("product is out of stock or has insufficient quantity")
	ErrEmptyOrder = errors.New("order must have at least one item")

	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrUnauthenticated = errors.New("authentication required")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// ValidationError marks malformed or missing input caught at the boundary
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError from a format string
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is one of the missing-entity errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}
