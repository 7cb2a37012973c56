package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrValidation marks input records rejected before any computation runs.
	ErrValidation = errors.New("calibration input invalid")

	// ErrComputation marks numeric failures while computing a budget.
	ErrComputation = errors.New("calibration computation failed")

	// Validation reasons
	ErrEmptyReadings      = fmt.Errorf("%w: reading sequences must not be empty", ErrValidation)
	ErrReadingsMismatch   = fmt.Errorf("%w: standard and test reading counts differ", ErrValidation)
	ErrUnknownReadingUnit = fmt.Errorf("%w: unknown reading unit", ErrValidation)

	// Computation reasons
	ErrNonFinite = fmt.Errorf("%w: non-finite intermediate value", ErrComputation)
)

// ValidationError reports a structural problem with a calibration input.
type ValidationError struct {
	Field  string
	Reason string
	err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.err != nil {
		return []error{ErrValidation, e.err}
	}
	return []error{ErrValidation}
}

// ComputationError is the single opaque failure returned when the budget
// cannot be computed. Detail is kept for logs; Error() stays generic.
type ComputationError struct {
	Detail string
	err    error
}

func (e *ComputationError) Error() string {
	return "calibration computation failed"
}

func (e *ComputationError) Unwrap() []error {
	if e.err != nil {
		return []error{ErrComputation, e.err}
	}
	return []error{ErrComputation}
}

// Error constructors with context
func NewValidationError(field string, reason string, cause error) error {
	return &ValidationError{Field: field, Reason: reason, err: cause}
}

func NewComputationError(detail string, cause error) error {
	return &ComputationError{Detail: detail, err: cause}
}

func NewNonFiniteError(quantity string, value float64) error {
	return &ComputationError{
		Detail: fmt.Sprintf("%s is %v", quantity, value),
		err:    ErrNonFinite,
	}
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}
