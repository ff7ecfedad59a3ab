package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnknownJurisdiction indicates a jurisdiction code outside the fixed tax table.
// This is a configuration fault, not user input: it means the tenant's stored tax
// configuration references a jurisdiction the engine does not know.
var ErrUnknownJurisdiction = errors.New("unknown tax jurisdiction")

// ErrUnsupportedCurrency indicates a currency code outside the tenant's enabled set
// or the conversion snapshot. Configuration fault, never retried.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrInvalidPeriod indicates a report date range whose start is after its end.
var ErrInvalidPeriod = errors.New("invalid report period")

// ErrForbidden indicates the caller is not allowed to act on the tenant.
var ErrForbidden = errors.New("forbidden")

// AppError carries a status code alongside a wrapped cause. Used by the
// repository layer for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
