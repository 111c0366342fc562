package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds reported in ErrorResponse.Error.
const (
	ErrorKindValidation = "validation_error"
	ErrorKindNotFound   = "not_found"
	ErrorKindConnection = "connection_error"
	ErrorKindInternal   = "internal_error"
)

var (
	// ErrNotFound is returned when no user has the requested id.
	ErrNotFound = errors.New("user not found")

	// ErrConnection is returned when the store cannot be reached.
	ErrConnection = errors.New("store unreachable")
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "user validation failed: " + strings.Join(parts, ", ")
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
