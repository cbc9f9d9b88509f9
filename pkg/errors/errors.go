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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Registry errors
	ErrAlreadyRegistered   ErrorCode = "ALREADY_REGISTERED"
	ErrNotRegistered       ErrorCode = "NOT_REGISTERED"
	ErrNotInitialized      ErrorCode = "NOT_INITIALIZED"
	ErrInvalidRegistration ErrorCode = "INVALID_REGISTRATION"
	ErrDispatchFailed      ErrorCode = "DISPATCH_FAILED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Scenario errors
	ErrScenarioParse   ErrorCode = "SCENARIO_PARSE"
	ErrScenarioInvalid ErrorCode = "SCENARIO_INVALID"

	// Tracing errors
	ErrTracingSetup ErrorCode = "TRACING_SETUP"
)

// HeraldError represents a structured error with code and details
type HeraldError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HeraldError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HeraldError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HeraldError) Is(target error) bool {
	var targetErr *HeraldError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HeraldError with the given code and message
func New(code ErrorCode, message string) *HeraldError {
	return &HeraldError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HeraldError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HeraldError {
	return &HeraldError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HeraldError
func Wrap(err error, code ErrorCode, message string) *HeraldError {
	if err == nil {
		return nil
	}
	return &HeraldError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HeraldError {
	if err == nil {
		return nil
	}
	return &HeraldError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HeraldError) WithDetail(key string, value interface{}) *HeraldError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *HeraldError) WithDetails(details map[string]interface{}) *HeraldError {
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
	var heraldErr *HeraldError
	if errors.As(err, &heraldErr) {
		return heraldErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HeraldError
func GetErrorCode(err error) ErrorCode {
	var heraldErr *HeraldError
	if errors.As(err, &heraldErr) {
		return heraldErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HeraldError
func GetErrorDetails(err error) map[string]interface{} {
	var heraldErr *HeraldError
	if errors.As(err, &heraldErr) {
		return heraldErr.Details
	}
	return nil
}
