// internal/common/errors/handler.go
package errors

import "time"

// ErrorHandler is the single boundary where run faults become user messages.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRunError logs the full fault and returns the message shown to the user.
func (h *ErrorHandler) HandleRunError(runID string, err error) string {
	stdErr := h.normalizeError(err)

	h.logger.Error("Failed to fetch and display team data", map[string]interface{}{
		"runId":         runID,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"statusCode":    stdErr.StatusCode,
		"error":         err.Error(),
	})

	return "An error occurred: " + stdErr.Message
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
