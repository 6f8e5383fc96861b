package auth

import (
	"errors"
	"fmt"
)

// ErrEmptyAudience rejects token requests with no audience.
var ErrEmptyAudience = errors.New("auth: audience must not be empty")

// Error is an authentication failure carrying the audience it concerns.
// Token acquisition errors are never retried.
type Error struct {
	// Audience is the audience the failure relates to, if any.
	Audience string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Audience != "" {
		return fmt.Sprintf("auth: audience %q: %v", e.Audience, e.Err)
	}
	return fmt.Sprintf("auth: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsAuthError checks whether err is an authentication failure.
func IsAuthError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
