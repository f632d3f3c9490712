package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUpstreamUnavailable means the feed source did not answer successfully:
	// transport failure or a non-2xx status.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamMalformed means a response arrived but did not have the expected shape.
	ErrUpstreamMalformed = errors.New("upstream response malformed")

	// ErrEventNotFound is returned for unknown event ids. The upstream has no
	// distinct not-found contract, so it is reported as a malformed response.
	ErrEventNotFound = fmt.Errorf("event not found: %w", ErrUpstreamMalformed)
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError reports inputs outside their documented constraints.
// It is always returned before any upstream call is made.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// malformed wraps a description as an ErrUpstreamMalformed.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstreamMalformed, fmt.Sprintf(format, args...))
}
