package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for backend calls. Callers match with errors.Is.
var (
	ErrNetwork     = errors.New("network error")
	ErrNotFound    = errors.New("not found")
	ErrTimeout     = errors.New("timeout")
	ErrParse       = errors.New("malformed response")
	ErrInvalidDate = errors.New("invalid date")
)

// APIError describes a failed backend request. It unwraps to one of the
// taxonomy sentinels.
type APIError struct {
	Op     string // e.g. "storms by date"
	Status int    // HTTP status, 0 for transport failures
	Detail string // optional {"detail": ...} from the error body
	Kind   error
	Err    error // underlying transport or decode error, if any
}

func (e *APIError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Message returns a short human-readable description suitable for an
// overlay: the backend detail when present, otherwise "Error <status>".
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status != 0 {
		return fmt.Sprintf("Error %d", e.Status)
	}
	return e.Kind.Error()
}
