package mesh

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers commonly want to match directly.
var (
	ErrMaxHopsExceeded  = errors.New("envelope exceeded max hop count")
	ErrNoRoute          = errors.New("no router available for route key")
	ErrNotRegistered    = errors.New("server not registered with broker")
	ErrSupervisorClosed = errors.New("supervisor is shutting down")
)

// Error is a structured error carrying a stable Code alongside the
// underlying Cause, in the same shape used throughout the broker/worker
// protocol layer this module's registration and routing logic is grounded
// on.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error codes classifying the site of a failure.
const (
	ErrCodeTransportFailure = "TRANSPORT_FAILURE"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeMaxHops          = "MAX_HOPS"
	ErrCodeParseFailure     = "PARSE_FAILURE"
	ErrCodeSys              = "SYS"
	ErrCodeDispatch         = "DISPATCH_ERROR"
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mesh %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("mesh %s: %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewTransportError wraps a socket-level failure.
func NewTransportError(message string, cause error) *Error {
	return newError(ErrCodeTransportFailure, message, cause)
}

// NewTimeoutError wraps a poll/recv timeout.
func NewTimeoutError(message string) *Error {
	return newError(ErrCodeTimeout, message, nil)
}

// NewMaxHopsError wraps an envelope exceeding MaxHops.
func NewMaxHopsError() *Error {
	return newError(ErrCodeMaxHops, "envelope exceeded max hop count", ErrMaxHopsExceeded)
}

// NewParseError wraps a header decode failure.
func NewParseError(cause error) *Error {
	return newError(ErrCodeParseFailure, "failed to parse message header", cause)
}

// NewDispatchError wraps a failure returned from a Dispatcher's Dispatch.
func NewDispatchError(cause error) *Error {
	return newError(ErrCodeDispatch, "dispatch failed", cause)
}

// Recoverable reports whether a caller should retry the operation that
// produced err rather than treat it as fatal. Transport failures and
// timeouts are recoverable; parse failures, max-hops, and dispatch errors
// are not, matching the propagation policy: malformed envelopes are
// dropped, not retried.
func Recoverable(err error) bool {
	if err == nil {
		return false
	}

	var meshErr *Error
	if errors.As(err, &meshErr) {
		switch meshErr.Code {
		case ErrCodeTransportFailure, ErrCodeTimeout:
			return true
		default:
			return false
		}
	}

	return errors.Is(err, ErrNoRoute)
}
