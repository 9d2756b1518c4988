package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeFatal         ErrorType = "FATAL"
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeValidation    ErrorType = "VALIDATION"
)

// Error is the error returned by every operation that aborts a scan, a
// comparison or a snapshot load. Per-file hashing failures never surface as
// an Error: they are reported and the file is skipped.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Fatal(message string) *Error {
	return &Error{
		Type:    ErrorTypeFatal,
		Message: message,
	}
}

func Fatalf(format string, args ...any) *Error {
	return Fatal(fmt.Sprintf(format, args...))
}

// Wrap attaches err as the cause of a fatal error.
func Wrap(err error, message string) *Error {
	return &Error{
		Type:    ErrorTypeFatal,
		Message: message,
		Err:     err,
	}
}

func Configuration(message string) *Error {
	return &Error{
		Type:    ErrorTypeConfiguration,
		Message: message,
	}
}

func NotFound(message string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

func ValidationError(message string, details any) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

func typeOf(err error) (ErrorType, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

// IsFatal reports whether err aborts the current top-level operation.
// Configuration errors are fatal as well.
func IsFatal(err error) bool {
	t, ok := typeOf(err)
	return ok && (t == ErrorTypeFatal || t == ErrorTypeConfiguration)
}

func IsConfiguration(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeConfiguration
}

func IsNotFound(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeNotFound
}
