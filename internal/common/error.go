// Package common defines sentinel errors and small helpers shared by the
// account store layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInactive     = errors.New("account is inactive")

	// Validation errors. The wrapping error carries the reason.
	ErrorInvalidInput = errors.New("invalid input")
)
