// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid configuration, malformed bars, bad strategy weights
//   - Data/Resource errors (200-299): Missing data and failed queries against a data source
//   - Strategy errors (400-499): Strategy lookup and strategy callbacks that fail at runtime
//   - Trading errors (500-599): Position bookkeeping errors inside a ledger
//   - Backtest errors (600-649): Run lifecycle errors such as cancellation
//   - Allocation errors (650-699): Capital allocator refusals
//   - Persistence errors (700-799): Result files that cannot be written or read back
//   - Callback errors (800-899): Lifecycle callback failures
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeInvalidConfiguration, "initial capital must be positive, got %s", capital)
//
//	if errors.HasCode(err, errors.ErrCodeInvalidConfiguration) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode of the outermost *Error in the chain.
// Returns ErrCodeUnknown if there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// HasCodeInChain reports whether any *Error in the chain carries code.
func HasCodeInChain(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		if e.Code == code {
			return true
		}

		err = e.Cause
	}

	return false
}
