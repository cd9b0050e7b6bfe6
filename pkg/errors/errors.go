package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by every storefront package.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrMalformedState = errors.New("malformed persisted state")
	ErrRateLimited    = errors.New("rate limited")
	ErrInternal       = errors.New("internal error")

	// ErrIndexOutOfRange is a NotFound kind: errors.Is(err, ErrNotFound) holds.
	ErrIndexOutOfRange = fmt.Errorf("cart line index out of range: %w", ErrNotFound)
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %v not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// IndexOutOfRange creates a 404 error for a cart line position that does not exist.
func IndexOutOfRange(index, length int) *AppError {
	return &AppError{
		Code:    "INDEX_OUT_OF_RANGE",
		Message: fmt.Sprintf("cart line %d does not exist (cart has %d lines)", index, length),
		Status:  http.StatusNotFound,
		Err:     ErrIndexOutOfRange,
	}
}

// MalformedState reports a stored snapshot that could not be decoded.
// The cause is kept in the message; errors.Is matches ErrMalformedState.
func MalformedState(key string, cause error) *AppError {
	return &AppError{
		Code:    "MALFORMED_STATE",
		Message: fmt.Sprintf("stored %s snapshot is unreadable: %v", key, cause),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrMalformedState,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// RateLimited creates a 429 error.
func RateLimited(message string) *AppError {
	return &AppError{
		Code:    "RATE_LIMITED",
		Message: message,
		Status:  http.StatusTooManyRequests,
		Err:     ErrRateLimited,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrMalformedState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
