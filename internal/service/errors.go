// Package service provides business logic for the resource services.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError reports a required field that is missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// requireField returns a ValidationError when value is empty.
// Callers pass values that are already trimmed.
func requireField(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field}
	}
	return nil
}
