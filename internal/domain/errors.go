package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrCodeEmptyInput       ErrorCode = "EMPTY_INPUT"
	ErrCodeServerError      ErrorCode = "SERVER_ERROR"
	ErrCodeAPIError         ErrorCode = "API_ERROR"
	ErrCodeTransportError   ErrorCode = "TRANSPORT_ERROR"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	Cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error for bad user-entered task data.
func NewValidationError(details ...string) *DomainError {
	msg := "Validation failed"
	if len(details) == 1 {
		msg = details[0]
	} else if len(details) > 1 {
		msg = fmt.Sprintf("Validation failed: %v", details)
	}
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: msg,
		Context: map[string]interface{}{"details": details},
	}
}

// NewFormatError creates an error for bulk input that cannot be parsed.
func NewFormatError(detail string, cause error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidFormat,
		Message: detail,
		Context: map[string]interface{}{"detail": detail},
		Cause:   cause,
	}
}

// NewEmptyInputError creates an error for an analysis requested with no tasks.
func NewEmptyInputError() *DomainError {
	return &DomainError{
		Code:    ErrCodeEmptyInput,
		Message: "Please add some tasks first",
		Context: map[string]interface{}{},
	}
}

// NewServerError creates an error for a failure response without structured detail.
func NewServerError(status int, statusText string) *DomainError {
	return &DomainError{
		Code:    ErrCodeServerError,
		Message: fmt.Sprintf("Server error: %d - %s", status, statusText),
		Context: map[string]interface{}{
			"status":      status,
			"status_text": statusText,
		},
	}
}

// NewAPIError creates an error for a failure response carrying a structured
// error payload. An empty message falls back to "HTTP {status}".
func NewAPIError(status int, message string) *DomainError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	return &DomainError{
		Code:    ErrCodeAPIError,
		Message: message,
		Context: map[string]interface{}{"status": status},
	}
}

// NewTransportError creates an error for an unreachable endpoint or an
// undecodable response.
func NewTransportError(cause error, unreachable bool) *DomainError {
	msg := "transport failure"
	if cause != nil {
		msg = cause.Error()
	}
	return &DomainError{
		Code:    ErrCodeTransportError,
		Message: msg,
		Context: map[string]interface{}{"unreachable": unreachable},
		Cause:   cause,
	}
}

// IsValidation returns true if the error is a validation error.
func IsValidation(err error) bool {
	return hasErrorCode(err, ErrCodeValidationFailed)
}

// IsFormat returns true if the error indicates unparseable bulk input.
func IsFormat(err error) bool {
	return hasErrorCode(err, ErrCodeInvalidFormat)
}

// IsEmptyInput returns true if the error indicates an empty task set.
func IsEmptyInput(err error) bool {
	return hasErrorCode(err, ErrCodeEmptyInput)
}

// IsServerError returns true if the server failed without structured detail.
func IsServerError(err error) bool {
	return hasErrorCode(err, ErrCodeServerError)
}

// IsAPIError returns true if the server reported a structured error.
func IsAPIError(err error) bool {
	return hasErrorCode(err, ErrCodeAPIError)
}

// IsTransport returns true if the error is a transport failure.
func IsTransport(err error) bool {
	return hasErrorCode(err, ErrCodeTransportError)
}

// IsUnreachable returns true if the server could not be reached at all.
func IsUnreachable(err error) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeTransportError {
		return false
	}
	unreachable, _ := domainErr.Context["unreachable"].(bool)
	return unreachable
}

// StatusCode returns the HTTP status carried by a server or API error, or 0.
func StatusCode(err error) int {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return 0
	}
	status, _ := domainErr.Context["status"].(int)
	return status
}

func hasErrorCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
