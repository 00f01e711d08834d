package util

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError standardizes failures surfaced by the API client. HTTPStatus is
// zero for failures that never reached the server (network, decode).
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError constructs an APIError.
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

func NewNetworkError(err error) error {
	return &APIError{Code: "NETWORK_ERROR", Message: "request failed", Err: err}
}

func NewDecodeError(err error) error {
	return &APIError{Code: "DECODE_ERROR", Message: "unexpected response shape", Err: err}
}

func NewValidationError(message string) error {
	return NewAPIError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

func NewUnauthorized(message string) error {
	return NewAPIError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func NewForbidden(message string) error {
	return NewAPIError("FORBIDDEN", message, http.StatusForbidden)
}

func NewNotFound(resource string) error {
	return NewAPIError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// FromStatus maps a bare HTTP status to an APIError when the server sent no
// decodable error envelope.
func FromStatus(status int) *APIError {
	switch status {
	case http.StatusUnauthorized:
		return NewAPIError("UNAUTHORIZED", "unauthorized", status)
	case http.StatusForbidden:
		return NewAPIError("FORBIDDEN", "forbidden", status)
	case http.StatusNotFound:
		return NewAPIError("NOT_FOUND", "not found", status)
	case http.StatusBadRequest:
		return NewAPIError("VALIDATION_FAILED", "bad request", status)
	default:
		return NewAPIError("REMOTE_ERROR", http.StatusText(status), status)
	}
}

// ToAPIError converts generic errors to APIError.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Code: "NETWORK_ERROR", Message: "request failed", Err: err}
}

// IsUnauthorized reports whether err carries a 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized
}

// IsForbidden reports whether err carries a 403.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusForbidden
}

// IsNetwork reports whether err never produced an HTTP response.
func IsNetwork(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == 0
}
