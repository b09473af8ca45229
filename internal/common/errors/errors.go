// Package errors provides standardized error handling for the HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUpstreamUnavailable     ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamTimeout         ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamBadStatus       ErrorCode = "UPSTREAM_BAD_STATUS"
	ErrCodeUpstreamInvalidResponse ErrorCode = "UPSTREAM_INVALID_RESPONSE"
	ErrCodeUpstreamRejected        ErrorCode = "UPSTREAM_REJECTED"

	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUpstreamUnavailableError creates a retryable network failure error.
func NewUpstreamUnavailableError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   fmt.Sprintf("Upstream service '%s' is unreachable", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUpstreamTimeoutError creates a retryable timeout error.
func NewUpstreamTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   fmt.Sprintf("Upstream service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUpstreamBadStatusError is retryable only for 5xx responses.
func NewUpstreamBadStatusError(service string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamBadStatus,
		Message:   fmt.Sprintf("Upstream service '%s' returned an unexpected status", service),
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"upstream_status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamInvalidResponseError creates a non-retryable decode error.
func NewUpstreamInvalidResponseError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamInvalidResponse,
		Message:   fmt.Sprintf("Upstream service '%s' returned a malformed response", service),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUpstreamRejectedError covers application-level refusals such as a
// missing credential or an exhausted quota.
func NewUpstreamRejectedError(service, status, message string, retryable bool) *StandardError {
	details := fmt.Sprintf("status: %s", status)
	if message != "" {
		details = fmt.Sprintf("status: %s, message: %s", status, message)
	}
	return &StandardError{
		Code:      ErrCodeUpstreamRejected,
		Message:   fmt.Sprintf("Upstream service '%s' rejected the request", service),
		Details:   details,
		Retryable: retryable,
		Metadata:  map[string]interface{}{"upstream_status": status},
		Timestamp: time.Now().UTC(),
	}
}

func NewNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Resource not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMethodNotAllowedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   "Method not allowed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewBadRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBadRequest,
		Message:   "Bad request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamUnavailable,
		ErrCodeUpstreamBadStatus,
		ErrCodeUpstreamInvalidResponse,
		ErrCodeUpstreamRejected:
		return http.StatusBadGateway
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "UPSTREAM"):
		return "UPSTREAM"
	case code == ErrCodeNotFound || code == ErrCodeMethodNotAllowed || code == ErrCodeBadRequest:
		return "CLIENT"
	default:
		return "OTHER"
	}
}
