// ABOUTME: Error taxonomy shared by the engine, store, facade and position sources
// ABOUTME: Typed errors carry the context callers need for user-facing messages

package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// Direction says which way a value was crossing a component boundary.
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// ValidationError reports boundary data that failed its schema.
type ValidationError struct {
	Shape     string
	Field     string
	Direction Direction
	From      string
	To        string
	Reason    string
}

func (e *ValidationError) Error() string {
	field := e.Field
	if field == "" {
		field = "(value)"
	}
	return fmt.Sprintf("invalid %s %s field %q (%s -> %s): %s",
		e.Direction, e.Shape, field, e.From, e.To, e.Reason)
}

// NotFoundError is returned when an operation targets a missing path id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path %q not found", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a storage read or write failure.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// PositionCode classifies position source failures.
type PositionCode string

const (
	CodeNotSupported        PositionCode = "not_supported"
	CodePermissionDenied    PositionCode = "permission_denied"
	CodePositionUnavailable PositionCode = "position_unavailable"
	CodeTimeout             PositionCode = "timeout"
	CodeStartFailed         PositionCode = "start_failed"
)

// PositionSourceError reports a failure from the external position source.
type PositionSourceError struct {
	Code    PositionCode
	Message string
	Cause   error
}

func (e *PositionSourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("position source %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("position source %s: %s", e.Code, e.Message)
}

func (e *PositionSourceError) Unwrap() error {
	return e.Cause
}

// StateError describes an operation invoked in the wrong session state.
// The engine treats these as no-ops and only logs them.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s ignored in state %s", e.Op, e.State)
}

// IsNotFound reports whether err is or wraps a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsPersistence extracts a *PersistenceError from err.
func AsPersistence(err error) (*PersistenceError, bool) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
