package app

import (
	"errors"
	"fmt"
)

// ErrStaleSession marks a response that arrived after the session it
// belongs to was replaced. Callers discard the result and move on.
var ErrStaleSession = errors.New("session replaced while request was in flight")

// ErrSupersededFetch marks a response for an older fetch that arrived
// after a newer fetch for the same session was already applied. The
// result is dropped without touching the snapshot.
var ErrSupersededFetch = errors.New("fetch superseded by a newer applied response")

// TransportError means no usable response came back at all.
type TransportError struct {
	Op  string // "send", "session", "health"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s]: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means the service answered with a non-success status.
type ProtocolError struct {
	Op         string
	StatusCode int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error [%s]: status %d", e.Op, e.StatusCode)
}

// ValidationError covers rejected local input, like an empty outbound
// message. Nothing was sent when one of these is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Reason)
}

// IsTransient reports whether an error should surface as a passing
// notification rather than ending the session.
func IsTransient(err error) bool {
	var te *TransportError
	var pe *ProtocolError
	return errors.As(err, &te) || errors.As(err, &pe)
}
