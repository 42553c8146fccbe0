package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell programmer error, missing
// credentials, an unreachable backend and a server rejection apart.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindAccessDenied
	KindNetworkUnavailable
	KindServer
)

// Sentinel errors for errors.Is checks against *Error values.
var (
	ErrValidation         = errors.New("validation error")
	ErrAccessDenied       = errors.New("access denied")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrServer             = errors.New("server error")
)

// Error is a classified façade failure.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "fetch_attendance_records"
	Status  int    // HTTP status for KindServer, 0 otherwise
	Message string // user-facing text
	Err     error  // underlying cause, if any
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.sentinel().Error()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindAccessDenied:
		return ErrAccessDenied
	case KindNetworkUnavailable:
		return ErrNetworkUnavailable
	case KindServer:
		return ErrServer
	default:
		return nil
	}
}

// Validation returns a KindValidation error. cause may be nil.
func Validation(op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...), Err: cause}
}

// AccessDenied returns the error raised when an operation needs a token and none is present.
func AccessDenied(op string) *Error {
	return &Error{Kind: KindAccessDenied, Op: op, Message: "Access Denied: No Token Provided"}
}

// Unreachable returns a KindNetworkUnavailable error hinting at backend reachability.
func Unreachable(op, baseURL string, cause error) *Error {
	return &Error{
		Kind:    KindNetworkUnavailable,
		Op:      op,
		Message: fmt.Sprintf("Could not connect to the server at %s. Make sure backend is running.", baseURL),
		Err:     cause,
	}
}

// ServerFailure returns a KindServer error for a non-2xx response.
func ServerFailure(op string, status int, message string) *Error {
	return &Error{Kind: KindServer, Op: op, Status: status, Message: message}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
