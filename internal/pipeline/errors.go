package pipeline

import (
	"fmt"
)

// ErrorType represents the type of pipeline error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExecution  ErrorType = "execution"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeIdentity   ErrorType = "identity"
	ErrorTypeJoin       ErrorType = "join"
)

// PipelineError wraps a step failure with its pipeline context. All failures
// in this batch pipeline are fatal; there are no retryable errors, and no
// bad row is ever silently skipped.
type PipelineError struct {
	Type    ErrorType `json:"type"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(step, message string) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeValidation,
		Step:    step,
		Message: message,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(step string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// WrapError wraps an error with pipeline context
func WrapError(err error, step string, message string) *PipelineError {
	if err == nil {
		return nil
	}

	if pErr, ok := err.(*PipelineError); ok {
		if pErr.Step == "" {
			pErr.Step = step
		}
		if message != "" {
			pErr.Message = fmt.Sprintf("%s: %s", message, pErr.Message)
		}
		return pErr
	}

	return &PipelineError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: message,
		Cause:   err,
	}
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Type
	}
	return ErrorTypeExecution
}
