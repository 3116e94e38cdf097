// Package errors provides the error types shared by the panel and its backend client
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// PanelError is the base interface for errors the panel surfaces over HTTP
type PanelError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of PanelError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// =============================================================================
// BACKEND FAILURES
// =============================================================================

// TransportError means a backend request never completed (dial, timeout,
// unreadable body). Users only ever see a generic connection message for it.
type TransportError struct {
	BaseError
	Op  string
	Err error
}

func NewTransportError(op string, err error) *TransportError {
	return &TransportError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s: %v", op, err),
			StatusCode: http.StatusBadGateway,
			ErrorCode:  "BACKEND_UNREACHABLE",
		},
		Op:  op,
		Err: err,
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a completed backend request answered with a non-2xx status.
// ServerMessage holds the backend's "error" field and may be empty.
type APIError struct {
	BaseError
	Op            string
	Status        int
	ServerMessage string
}

func NewAPIError(op string, status int, serverMessage string) *APIError {
	msg := fmt.Sprintf("%s: backend returned %d", op, status)
	if serverMessage != "" {
		msg += ": " + serverMessage
	}
	return &APIError{
		BaseError: BaseError{
			Message:    msg,
			StatusCode: http.StatusBadGateway,
			ErrorCode:  "BACKEND_REJECTED",
		},
		Op:            op,
		Status:        status,
		ServerMessage: serverMessage,
	}
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return stderrors.As(err, &te)
}

// UserMessage picks the text shown to a user for a failed backend call:
// the connection message for transport failures, the server-supplied
// message for rejections that carry one, the fallback otherwise.
func UserMessage(err error, fallback, connection string) string {
	if err == nil {
		return ""
	}
	if IsTransport(err) {
		return connection
	}
	var ae *APIError
	if stderrors.As(err, &ae) && ae.ServerMessage != "" {
		return ae.ServerMessage
	}
	return fallback
}

// =============================================================================
// PANEL REQUEST FAILURES
// =============================================================================

// NotFoundError represents a resource not found error
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// ValidationError represents a rejected request parameter
type ValidationError struct {
	BaseError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "VALIDATION_ERROR",
		},
		Field: field,
	}
}

// ToHTTPError converts any error to an appropriate HTTP response
func ToHTTPError(err error) (int, map[string]interface{}) {
	if err == nil {
		return http.StatusOK, nil
	}

	var pe PanelError
	if stderrors.As(err, &pe) {
		return pe.HTTPStatus(), map[string]interface{}{
			"error":   pe.Code(),
			"message": pe.Error(),
		}
	}

	return http.StatusInternalServerError, map[string]interface{}{
		"error":   "INTERNAL_ERROR",
		"message": "internal server error",
	}
}
