package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNetwork     ErrorType = "NETWORK"
	ErrTypeParsing     ErrorType = "PARSING"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeExternalAPI ErrorType = "EXTERNAL_API"
	ErrTypeRateLimit   ErrorType = "RATE_LIMIT"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type with no message,
// so sentinel values like ErrRateLimited match any rate limit error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == ""
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is matching on type only.
var (
	ErrNetwork     = &AppError{Type: ErrTypeNetwork}
	ErrParsing     = &AppError{Type: ErrTypeParsing}
	ErrStorage     = &AppError{Type: ErrTypeStorage}
	ErrValidation  = &AppError{Type: ErrTypeValidation}
	ErrNotFound    = &AppError{Type: ErrTypeNotFound}
	ErrConfig      = &AppError{Type: ErrTypeConfig}
	ErrExternalAPI = &AppError{Type: ErrTypeExternalAPI}
	ErrRateLimited = &AppError{Type: ErrTypeRateLimit}
)

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewExternalAPIError creates an error for a failed call to a remote API
func NewExternalAPIError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExternalAPI, message, cause)
}

// NewRateLimitError creates an error for a throttled remote call
func NewRateLimitError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRateLimit, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in the chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
