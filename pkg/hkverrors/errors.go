// Package hkverrors carries the Store RPC error taxonomy: a status
// code plus a retryability hint, following the {Code, Retryable, Err}
// pattern used throughout this module's connector packages.
package hkverrors

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

// nonRetryable is the set of status codes that must never be retried
// by the query planner or the mutation writer.
var nonRetryable = map[codes.Code]bool{
	codes.FailedPrecondition: true,
	codes.InvalidArgument:    true,
	codes.PermissionDenied:   true,
	codes.Unauthenticated:    true,
}

// IsNonRetryable reports whether code is in the permanent-error set.
func IsNonRetryable(code codes.Code) bool {
	return nonRetryable[code]
}

// Error wraps a Store RPC failure with its status code and
// retryability hint.
type Error struct {
	Code codes.Code
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether this error's code is safe to retry.
func (e *Error) Retryable() bool {
	return !IsNonRetryable(e.Code)
}

// CodeValue satisfies the CodedError convention used for structured
// error logging.
func (e *Error) CodeValue() string { return e.Code.String() }

// RetryableStatus satisfies the CodedError convention used for
// structured error logging.
func (e *Error) RetryableStatus() bool { return e.Retryable() }

// Wrap attaches a status code to err.
func Wrap(code codes.Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// ConfigError reports an invalid connector configuration, detected at
// construction time rather than via an RPC. Always non-retryable.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string { return "hkv: configuration error: " + e.Reason }

func (ConfigError) RetryableStatus() bool { return false }
func (ConfigError) CodeValue() string     { return "E_CONFIGURATION" }
