package chatexchange

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes SDK errors.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota

	// Precondition violations: the caller used the client out of order.
	// These are never recovered silently.
	ErrorAlreadyLoggedIn
	ErrorNotLoggedIn
	ErrorUnknownSite

	// Transport failures surfaced from the browser.
	ErrorLogin
	ErrorJoinRoom
	ErrorWatch
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorAlreadyLoggedIn:
		return "already_logged_in"
	case ErrorNotLoggedIn:
		return "not_logged_in"
	case ErrorUnknownSite:
		return "unknown_site"
	case ErrorLogin:
		return "login_failed"
	case ErrorJoinRoom:
		return "join_room_failed"
	case ErrorWatch:
		return "watch_failed"
	default:
		return fmt.Sprintf("unknown_code_%d", int(e))
	}
}

// ClientError is a structured error with code and context.
type ClientError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *ClientError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is comparison by code.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a ClientError with the given code and message.
func NewError(code ErrorCode, message string) *ClientError {
	return &ClientError{Code: code, Message: message}
}

// WrapError wraps an existing error with a ClientError.
func WrapError(code ErrorCode, message string, err error) *ClientError {
	return &ClientError{Code: code, Message: message, Wrapped: err}
}

// IsPrecondition reports whether err is a lifecycle misuse by the caller
// (double login, send before login, double logout).
func IsPrecondition(err error) bool {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Code {
	case ErrorAlreadyLoggedIn, ErrorNotLoggedIn, ErrorUnknownSite:
		return true
	default:
		return false
	}
}
