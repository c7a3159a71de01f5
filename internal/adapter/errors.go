package adapter

import (
	"errors"
	"fmt"
)

// Error is returned by adapter operations.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description. For expression errors it is
	// the rendered filter error.
	Message string

	// Filter names the saved filter involved, if any.
	Filter string

	// Err is the underlying error.
	Err error
}

// ErrorCode categorizes adapter errors.
type ErrorCode string

const (
	// ErrCodeExpression indicates the filter expression failed to tokenize or compile.
	ErrCodeExpression ErrorCode = "EXPRESSION"

	// ErrCodeReadOnly indicates an attempt to change a builtin filter.
	ErrCodeReadOnly ErrorCode = "READ_ONLY"

	// ErrCodeNotFound indicates a saved filter does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeAccess indicates the database could not be read or written.
	ErrCodeAccess ErrorCode = "ACCESS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Filter != "" {
		return fmt.Sprintf("%s: %s (filter=%s)", e.Code, e.Message, e.Filter)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsExpressionError reports whether err is an expression error.
// Uses errors.As to handle wrapped errors.
func IsExpressionError(err error) bool {
	return hasCode(err, ErrCodeExpression)
}

// IsReadOnlyError reports whether err rejects a change to a builtin filter.
func IsReadOnlyError(err error) bool {
	return hasCode(err, ErrCodeReadOnly)
}

// IsNotFoundError reports whether err names a missing filter.
func IsNotFoundError(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func hasCode(err error, code ErrorCode) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// newExpressionError wraps a tokenization or compile error.
func newExpressionError(err error) *Error {
	return &Error{Code: ErrCodeExpression, Message: err.Error(), Err: err}
}

// newAccessError wraps a database failure.
func newAccessError(op string, err error) *Error {
	return &Error{Code: ErrCodeAccess, Message: op, Err: err}
}
