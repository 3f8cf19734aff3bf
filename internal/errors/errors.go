// Package errors provides coded application errors so callers can branch on
// stable error codes while messages stay human-readable.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Fields  []string // offending field names, when applicable
	Cause   error
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Fields:  appErr.Fields,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// CodeOf returns the error code if err carries one, otherwise "UNKNOWN".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// FieldsOf returns the offending field names carried by err, if any.
func FieldsOf(err error) []string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidationError
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeComputationError = "COMPUTATION_ERROR"
	CodeIngestError      = "INGEST_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// Validation builds a VALIDATION_ERROR naming every offending field so the
// caller can report all problems at once.
func Validation(message string, fields ...string) *AppError {
	return &AppError{
		Code:    CodeValidationError,
		Message: message,
		Fields:  fields,
	}
}

// Computation builds a COMPUTATION_ERROR for arithmetic failures that are not
// covered by a documented fallback.
func Computation(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeComputationError,
		Message: message,
		Cause:   cause,
	}
}

func IngestError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeIngestError,
		Message: message,
		Cause:   cause,
	}
}
