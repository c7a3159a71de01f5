package filter

import (
	"fmt"
	"strings"
)

// TokenizationError reports a failure while turning filter text into
// instructions. It is a plain value so tests can compare it with == and
// errors.Is.
type TokenizationError struct {
	Message string
}

// NewTokenizationError creates a TokenizationError with the given message.
func NewTokenizationError(format string, args ...any) TokenizationError {
	if len(args) == 0 {
		return TokenizationError{Message: format}
	}
	return TokenizationError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e TokenizationError) Error() string {
	return fmt.Sprintf("An Error Occurred; %s.", e.Message)
}

// Compare orders tokenization errors by message.
func (e TokenizationError) Compare(other TokenizationError) int {
	return strings.Compare(e.Message, other.Message)
}

// SQLParseError reports a failure while generating SQL from a tokenized
// instruction list.
type SQLParseError struct {
	Message string
}

// NewSQLParseError creates a SQLParseError with the given message.
func NewSQLParseError(format string, args ...any) SQLParseError {
	if len(args) == 0 {
		return SQLParseError{Message: format}
	}
	return SQLParseError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e SQLParseError) Error() string {
	return fmt.Sprintf("An Error Occurred; %s.", e.Message)
}

// Compare orders code generation errors by message.
func (e SQLParseError) Compare(other SQLParseError) int {
	return strings.Compare(e.Message, other.Message)
}

// joinAlternatives merges the messages of every failed alternative into one.
func joinAlternatives(messages []string) TokenizationError {
	return TokenizationError{Message: strings.Join(messages, " or\n")}
}
