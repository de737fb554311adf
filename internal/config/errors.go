package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the definition file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnsupportedFormat indicates a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed indicates one or more definitions are invalid.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError represents an error while parsing a definition file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes an invalid suggester definition.
type ValidationError struct {
	// Index is the position of the definition in the file.
	Index int
	// Name is the definition name, possibly empty.
	Name string
	// Field is the offending field in its snake_case form.
	Field string
	// Message describes the validation error.
	Message string
	// Code categorizes the validation error.
	Code ValidationErrorCode
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("suggesters[%d] %q: %s: %s", e.Index, e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("suggesters[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeRequiredMissing indicates a required field is empty.
	ErrCodeRequiredMissing ValidationErrorCode = iota
	// ErrCodeDuplicate indicates a name already used by another definition.
	ErrCodeDuplicate
	// ErrCodeOutOfRange indicates a numeric value is out of range.
	ErrCodeOutOfRange
	// ErrCodePatternInvalid indicates a regular expression that doesn't compile.
	ErrCodePatternInvalid
)

// String returns a human-readable name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeRequiredMissing:
		return "required_missing"
	case ErrCodeDuplicate:
		return "duplicate"
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodePatternInvalid:
		return "pattern_invalid"
	default:
		return "unknown"
	}
}
