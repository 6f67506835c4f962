// Package gwerrors defines the kind-tagged error taxonomy shared across
// the device management subsystem (model, store, driver dispatch, RPC
// surfaces). Every layer boundary converts local failures into one of
// these kinds rather than letting raw errors cross; drivers never
// propagate errors across the boundary, they return booleans/sentinels.
package gwerrors

import "fmt"

// Kind classifies an Error so callers at any layer can react uniformly
// without string-matching messages.
type Kind string

const (
	// InvalidArg indicates a missing or malformed request input.
	InvalidArg Kind = "INVALID_ARG"
	// NotFound indicates a URI resolved to nothing.
	NotFound Kind = "NOT_FOUND"
	// NotAllowed indicates a mode or permission violation.
	NotAllowed Kind = "NOT_ALLOWED"
	// DriverError indicates a driver hook returned false.
	DriverError Kind = "DRIVER_ERROR"
	// Timeout indicates a blocking operation exceeded its deadline.
	Timeout Kind = "TIMEOUT"
	// IOError indicates a persistence or download failure.
	IOError Kind = "IO_ERROR"
	// ServiceDisabled indicates a feature compiled out of this build.
	ServiceDisabled Kind = "SERVICE_DISABLED"
	// ValueNotAllowed indicates a property/state write failed schema validation.
	ValueNotAllowed Kind = "VALUE_NOT_ALLOWED"
	// Duplicate indicates admission rejected a device already persisted.
	Duplicate Kind = "DUPLICATE"
	// NoDescriptor indicates no matching descriptor exists for a device class/model.
	NoDescriptor Kind = "NO_DESCRIPTOR"
)

// Error is a kind-tagged error that wraps an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, gwerrors.Sentinel(gwerrors.NotFound)) style checks
// by comparing the Kind field of *Error values.
func (e *Error) Is(target error) bool {
	k, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == k.Kind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Sentinel returns a bare *Error usable as an errors.Is target for a Kind,
// e.g. errors.Is(err, gwerrors.Sentinel(gwerrors.NotFound)).
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}
