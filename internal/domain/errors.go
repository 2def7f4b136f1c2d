// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when caller input violates a field constraint.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")
)
