// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeFormat indicates an unrecognized file format
	TypeFormat Type = "FORMAT_ERROR"

	// TypeParse indicates a malformed file that matched a known format
	TypeParse Type = "PARSE_ERROR"

	// TypeUnit indicates a unit or dimension violation
	TypeUnit Type = "UNIT_ERROR"

	// TypeColumn indicates a missing data column
	TypeColumn Type = "COLUMN_ERROR"

	// TypePlot indicates a chart rendering error
	TypePlot Type = "PLOT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound indicates something sought was not present
	TypeNotFound Type = "NOT_FOUND"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Format creates a format error for files no importer recognizes
func Format(path, reason string) *Error {
	return Newf(TypeFormat, "unrecognized format for %s: %s", path, reason)
}

// Parse creates a parse error
func Parse(message string, cause error) *Error {
	return Wrap(TypeParse, message, cause)
}

// Parsef creates a formatted parse error
func Parsef(format string, args ...interface{}) *Error {
	return Newf(TypeParse, format, args...)
}

// Unit creates a unit error
func Unit(message string) *Error {
	return New(TypeUnit, message)
}

// Unitf creates a formatted unit error
func Unitf(format string, args ...interface{}) *Error {
	return Newf(TypeUnit, format, args...)
}

// Column creates a missing-column error listing the available choices
func Column(name string, choices []string) *Error {
	return Newf(TypeColumn, "no column %q; choices are %v", name, choices)
}

// NotFound creates a not found error
func NotFound(kind, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", kind, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
