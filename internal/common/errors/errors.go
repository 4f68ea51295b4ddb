// Package errors provides standardized error handling for webhook processing.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Inbound payload errors
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	ErrCodeEmptyPayload   ErrorCode = "EMPTY_PAYLOAD"

	// Configuration errors
	ErrCodeRouteTableInvalid ErrorCode = "ROUTE_TABLE_INVALID"
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"

	// Remote-service errors
	ErrCodeCommentPostFailed  ErrorCode = "COMMENT_POST_FAILED"
	ErrCodeTaskCreateFailed   ErrorCode = "TASK_CREATE_FAILED"
	ErrCodeTaskServiceNoID    ErrorCode = "TASK_SERVICE_NO_ID"
	ErrCodeExtractionFailed   ErrorCode = "EXTRACTION_FAILED"
	ErrCodeRemoteUnexpected   ErrorCode = "REMOTE_UNEXPECTED_RESPONSE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the status the webhook caller receives.
// Inbound payload problems are the caller's fault; everything else that
// aborts a request is a server-side failure.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidPayload, ErrCodeEmptyPayload:
		return http.StatusBadRequest
	case ErrCodeCommentPostFailed, ErrCodeTaskCreateFailed, ErrCodeTaskServiceNoID, ErrCodeRemoteUnexpected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewInvalidPayloadError marks an inbound webhook body that failed validation.
func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Webhook payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyPayloadError marks a structurally empty webhook body.
func NewEmptyPayloadError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyPayload,
		Message:   "Webhook payload is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRouteTableInvalidError marks a malformed destination route table.
// Callers treat the table as empty; the error is for logging only.
func NewRouteTableInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRouteTableInvalid,
		Message:   "Destination route table could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingCredentialError marks a mandatory credential that could not be
// resolved for a matched route.
func NewMissingCredentialError(what string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredential,
		Message:   fmt.Sprintf("No %s available for destination", what),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCommentPostError wraps a comment-service failure. This is the only
// remote failure that aborts a request.
func NewCommentPostError(destination string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCommentPostFailed,
		Message:   "Posting meeting comment failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"destination": destination},
		Timestamp: time.Now().UTC(),
	}
}

// NewTaskCreateError wraps a task-service failure (isolated, never aborts).
func NewTaskCreateError(listID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTaskCreateFailed,
		Message:   "Task creation failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"listId": listID},
		Timestamp: time.Now().UTC(),
	}
}

// NewTaskServiceNoIDError marks a 2xx task-service response that carried no
// task identifier.
func NewTaskServiceNoIDError(listID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTaskServiceNoID,
		Message:   "Task service accepted the request but returned no identifier",
		Retryable: false,
		Metadata:  map[string]interface{}{"listId": listID},
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionError wraps an extraction-service failure (isolated).
func NewExtractionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Action-item extraction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandardError unwraps err to a *StandardError if one is in the chain,
// otherwise wraps it with the given fallback code.
func AsStandardError(err error, fallback ErrorCode) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      fallback,
		Message:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
