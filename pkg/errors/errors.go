package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the installer taxonomy. All are terminal for the current
// call; retries, if any, belong to the caller.
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Archive adapter errors
	ErrUnsupportedFormat       ErrorCode = "UNSUPPORTED_FORMAT"
	ErrArchiveCorrupt          ErrorCode = "ARCHIVE_CORRUPT"
	ErrExternalToolUnavailable ErrorCode = "EXTERNAL_TOOL_UNAVAILABLE"

	// Resolution and planning errors
	ErrNothingToInstall ErrorCode = "NOTHING_TO_INSTALL"
	ErrEmptyPlan        ErrorCode = "EMPTY_PLAN"
	ErrUnsafePath       ErrorCode = "UNSAFE_PATH"

	// Execution errors
	ErrProtectedModGuard ErrorCode = "PROTECTED_MOD_GUARD"
	ErrDecisionRequired  ErrorCode = "DECISION_REQUIRED"
	ErrPartialInstall    ErrorCode = "PARTIAL_INSTALL"
	ErrMarkerWriteFailed ErrorCode = "MARKER_WRITE_FAILED"
)

// InstallError represents a structured error with code and details.
// Details carry enough context (archive path, resolved shape/root, offending
// entry path) to render an actionable message without re-deriving it.
type InstallError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *InstallError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *InstallError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *InstallError) Is(target error) bool {
	var targetErr *InstallError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new InstallError with the given code and message
func New(code ErrorCode, message string) *InstallError {
	return &InstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new InstallError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *InstallError {
	return &InstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an InstallError
func Wrap(err error, code ErrorCode, message string) *InstallError {
	if err == nil {
		return nil
	}
	return &InstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *InstallError {
	if err == nil {
		return nil
	}
	return &InstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *InstallError) WithDetail(key string, value interface{}) *InstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *InstallError) WithDetails(details map[string]interface{}) *InstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var instErr *InstallError
	if errors.As(err, &instErr) {
		return instErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an InstallError
func GetErrorCode(err error) ErrorCode {
	var instErr *InstallError
	if errors.As(err, &instErr) {
		return instErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an InstallError
func GetErrorDetails(err error) map[string]interface{} {
	var instErr *InstallError
	if errors.As(err, &instErr) {
		return instErr.Details
	}
	return nil
}

// ExitCode maps an error to a stable process exit code for the CLI.
// Zero is returned for nil errors only.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetErrorCode(err) {
	case ErrUnsupportedFormat:
		return 2
	case ErrUnsafePath:
		return 3
	case ErrProtectedModGuard:
		return 4
	case ErrPartialInstall:
		return 5
	case ErrExternalToolUnavailable:
		return 6
	case ErrDecisionRequired:
		return 7
	default:
		return 1
	}
}
