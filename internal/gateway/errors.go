package gateway

import (
	"errors"
	"fmt"
)

// Error represents a failed Gateway call: a transport failure, a non-2xx
// status or a body that could not be decoded.
type Error struct {
	Op         string // operation, e.g. "save skill"
	StatusCode int    // 0 when no response was received
	Message    string // user-facing message
	// ServerMessage is the Gateway's own "error"/"message" text, empty when
	// the Gateway sent none.
	ServerMessage string
	Cause         error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ConflictError is returned when the Gateway reports a duplicate, such as a
// job that was already saved.
type ConflictError struct {
	Op      string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
}

// ServerMessage returns the Gateway-provided error text carried by err, or
// fallback when there is none.
func ServerMessage(err error, fallback string) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.ServerMessage != "" {
		return gwErr.ServerMessage
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) && conflict.Message != "" {
		return conflict.Message
	}
	return fallback
}

// Message returns the user-facing text for err: the Gateway error message
// when err is a Gateway error, else err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Message
	}
	return err.Error()
}
