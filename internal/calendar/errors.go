package calendar

import (
	"errors"
	"fmt"
)

// ErrValidation matches every ValidationError via errors.Is
var ErrValidation = errors.New("validation error")

// ValidationError reports invalid input at the boundary of an operation.
// The operation does not run when it is returned.
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

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a ValidationError for the field
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
