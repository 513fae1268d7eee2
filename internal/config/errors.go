package config

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the configuration path does not name
	// an existing file.
	ErrFileNotFound = errors.New("configuration file not found")
	// ErrMalformedInput is returned when the configuration file cannot be parsed.
	ErrMalformedInput = errors.New("malformed configuration")
	// ErrValidation is the kind of every *ValidationError.
	ErrValidation = errors.New("invalid configuration")
)

// ValidationError reports a single field that violates the model's invariants.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: field %s %s, got: %s", ErrValidation, e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidf(field, value, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// Invalid builds a ValidationError for loaders that detect type mismatches
// before a Document can be assembled.
func Invalid(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
