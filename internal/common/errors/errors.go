// Package errors provides the standardized error taxonomy for team-stat runs.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeTransportFault     ErrorCode = "TRANSPORT_FAULT"
	ErrCodeSerializationFault ErrorCode = "SERIALIZATION_FAULT"
	ErrCodeSchemaValidation   ErrorCode = "SCHEMA_VALIDATION_FAILED"

	ErrCodeInvalidTeamNumber ErrorCode = "INVALID_TEAM_NUMBER"
	ErrCodePublishFailed     ErrorCode = "PUBLISH_FAILED"
	ErrCodeRunTimeout        ErrorCode = "RUN_TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	// Retryable says whether the fault is transient. It is reported in logs
	// only: retry.Do retries every fault it sees, whatever this flag says.
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewTransportFaultError creates a retryable error for a failed call to the processing service.
func NewTransportFaultError(method, url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFault,
		Message:   fmt.Sprintf("%s %s failed", method, url),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"method": method, "url": url},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnexpectedStatusError creates a retryable error for a non-2xx response.
func NewUnexpectedStatusError(method, url string, statusCode int, body string) *StandardError {
	return &StandardError{
		Code:       ErrCodeTransportFault,
		Message:    fmt.Sprintf("%s %s returned status %d", method, url, statusCode),
		Details:    body,
		Retryable:  true,
		StatusCode: statusCode,
		Metadata:   map[string]interface{}{"method": method, "url": url},
		Timestamp:  time.Now().UTC(),
	}
}

// NewSerializationFaultError creates a non-retryable error for a body that cannot be encoded or decoded.
func NewSerializationFaultError(what string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSerializationFault,
		Message:   fmt.Sprintf("malformed %s", what),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSchemaValidationError creates a non-retryable error listing schema violations.
func NewSchemaValidationError(what string, violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidation,
		Message:   fmt.Sprintf("%s does not match schema", what),
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTeamNumberError creates a non-retryable error for a team outside the known range.
func NewInvalidTeamNumberError(teamNumber, first, last int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTeamNumber,
		Message:   "Team number out of range",
		Details:   fmt.Sprintf("teamNumber: %d, allowed: %d..%d", teamNumber, first, last),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPublishFailedError creates an error for a display that rejected the result set.
func NewPublishFailedError(display string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePublishFailed,
		Message:   fmt.Sprintf("Display '%s' failed", display),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRunTimeoutError creates an error for a run that exceeded its deadline.
func NewRunTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRunTimeout,
		Message:   "Run deadline exceeded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Retryable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeTransportFault, ErrCodeRunTimeout:
		return "TRANSPORT"
	case ErrCodeSerializationFault, ErrCodeSchemaValidation:
		return "SERIALIZATION"
	case ErrCodeInvalidTeamNumber:
		return "VALIDATION"
	case ErrCodePublishFailed:
		return "DISPLAY"
	default:
		return "OTHER"
	}
}
