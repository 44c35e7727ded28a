package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Tracked path errors
	ErrInvalidPath ErrorCode = "INVALID_PATH"

	// Filesystem entry errors
	ErrUnsupportedEntry ErrorCode = "UNSUPPORTED_ENTRY"
	ErrTargetMissing    ErrorCode = "TARGET_MISSING"
	ErrAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrFileAccess       ErrorCode = "FILE_ACCESS"
	ErrFileCopy         ErrorCode = "FILE_COPY"
	ErrSymlinkCreate    ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate        ErrorCode = "DIR_CREATE"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Application registry errors
	ErrAppNotFound ErrorCode = "APP_NOT_FOUND"
	ErrAppInvalid  ErrorCode = "APP_INVALID"

	// Storage engine errors
	ErrStorageNotFound ErrorCode = "STORAGE_NOT_FOUND"
	ErrEngineUnknown   ErrorCode = "ENGINE_UNKNOWN"
)

// HomesyncError represents a structured error with code and details
type HomesyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HomesyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HomesyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HomesyncError) Is(target error) bool {
	var targetErr *HomesyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HomesyncError with the given code and message
func New(code ErrorCode, message string) *HomesyncError {
	return &HomesyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HomesyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HomesyncError {
	return &HomesyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HomesyncError
func Wrap(err error, code ErrorCode, message string) *HomesyncError {
	if err == nil {
		return nil
	}
	return &HomesyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HomesyncError {
	if err == nil {
		return nil
	}
	return &HomesyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HomesyncError) WithDetail(key string, value interface{}) *HomesyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var hsErr *HomesyncError
	if errors.As(err, &hsErr) {
		return hsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HomesyncError
func GetErrorCode(err error) ErrorCode {
	var hsErr *HomesyncError
	if errors.As(err, &hsErr) {
		return hsErr.Code
	}
	return ErrUnknown
}
