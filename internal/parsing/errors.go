// Package parsing normalizes the loosely shaped payloads the Gateway and
// third-party providers return into the client's canonical types.
package parsing

import "fmt"

// ParseError represents an error parsing a provider response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
