package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "crmsynth/internal/errors"
)

// ErrorType classifies an operation error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeDependency   ErrorType = "dependency"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeFatal        ErrorType = "fatal"
	ErrorTypeNotFound     ErrorType = "not_found"
)

// OperationError is an error raised while running a step
type OperationError struct {
	Type      ErrorType
	Step      string
	Message   string
	Cause     error
	Retryable bool
}

// Error implements the error interface
func (e *OperationError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports a step that cannot run with the current state
func NewValidationError(step string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeValidation, Step: step, Message: "validation failed", Cause: cause}
}

// NewDependencyError reports a missing or unfinished dependency
func NewDependencyError(step, dependsOn, message string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeDependency,
		Step:    step,
		Message: fmt.Sprintf("%s (%s)", message, dependsOn),
	}
}

// NewExecutionError wraps a step failure. Network, rate limit and
// upstream API errors are retryable.
func NewExecutionError(step string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeExecution,
		Step:      step,
		Message:   "step execution failed",
		Cause:     cause,
		Retryable: isTransient(cause),
	}
}

// NewTimeoutError reports a step that ran past its timeout
func NewTimeoutError(step, timeout string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeTimeout,
		Step:    step,
		Message: fmt.Sprintf("step exceeded timeout of %s", timeout),
		Cause:   context.DeadlineExceeded,
	}
}

// NewCancellationError reports an operation cancelled before step ran
func NewCancellationError(step string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeCancellation,
		Step:    step,
		Message: "operation was cancelled",
		Cause:   context.Canceled,
	}
}

// NewNotFoundError reports an unknown step id
func NewNotFoundError(step string) *OperationError {
	return &OperationError{Type: ErrorTypeNotFound, Step: step, Message: "step not registered"}
}

// NewFatalError creates a non-retryable error outside any step
func NewFatalError(message string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeFatal, Message: message, Cause: cause}
}

// IsRetryable reports whether err is worth another attempt
func IsRetryable(err error) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Retryable
	}
	return isTransient(err)
}

// GetErrorType returns the type of err, or execution for foreign errors
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}

func isTransient(err error) bool {
	return errors.Is(err, apperrors.ErrNetwork) ||
		errors.Is(err, apperrors.ErrRateLimited) ||
		errors.Is(err, apperrors.ErrExternalAPI)
}

// ErrorList collects the failures of an operation that continued past them
type ErrorList struct {
	Errors []error
}

// Error implements the error interface
func (e *ErrorList) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d steps failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (e *ErrorList) Unwrap() []error {
	return e.Errors
}

// Add appends a non-nil error
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors reports whether any error was added
func (e *ErrorList) HasErrors() bool {
	return len(e.Errors) > 0
}
