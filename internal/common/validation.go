package common

import "strings"

// FieldViolation names one rejected input field.
type FieldViolation struct {
	Field       string
	Description string
}

// ValidationError collects field violations. It matches ErrorInvalidArgument
// under errors.Is so transports can map it like the sentinel.
type ValidationError struct {
	Violations []FieldViolation
}

// Add records a violation and returns the receiver for chaining.
func (e *ValidationError) Add(field, description string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Description: description})
	return e
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Description)
	}
	return ErrorInvalidArgument.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorInvalidArgument
}

// Invalid is shorthand for a single-field ValidationError.
func Invalid(field, description string) error {
	return (&ValidationError{}).Add(field, description)
}
