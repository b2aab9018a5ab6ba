package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflicting update, retry")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
)

// Voucher rejections. The messages are shown to customers as is.
var (
	ErrVoucherInactive     = errors.New("voucher is inactive")
	ErrVoucherExpired      = errors.New("voucher has expired")
	ErrVoucherNotStarted   = errors.New("voucher is not yet valid")
	ErrVoucherBelowMinimum = errors.New("order total is below the voucher minimum")
	ErrVoucherLimitReached = errors.New("voucher usage limit reached")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError describes a rejected status edge.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IsVoucherRejection reports whether err is one of the voucher rejection reasons.
func IsVoucherRejection(err error) bool {
	return errors.Is(err, ErrVoucherInactive) ||
		errors.Is(err, ErrVoucherExpired) ||
		errors.Is(err, ErrVoucherNotStarted) ||
		errors.Is(err, ErrVoucherBelowMinimum) ||
		errors.Is(err, ErrVoucherLimitReached)
}
