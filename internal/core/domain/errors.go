package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound     = errors.New("trading record not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrRoleNotFound       = errors.New("role not assigned")
	ErrInvalidRole        = errors.New("invalid role")
)

// ErrIdempotencyConflict means another request holds the same Idempotency-Key
// and has not produced a record that can be replayed.
var ErrIdempotencyConflict = errors.New("idempotency key in use")

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
