package store

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is returned by operations that need a session when none is
// active. No request is sent.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthError represents a failed login or signup.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
