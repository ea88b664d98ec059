package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business-rule rejection.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindPreconditionFailed Kind = "precondition_failed"
	KindConflict           Kind = "conflict"
	KindInvalidArgument    Kind = "invalid_argument"
	KindUnauthenticated    Kind = "unauthenticated"
	KindInternal           Kind = "internal"
)

// AppError is the error type returned by services and repositories.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports a match against another *AppError of the same kind, so
// errors.Is(err, errors.ErrNotFound) works for any not-found error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	// ErrNotFound matches any not-found error with errors.Is.
	ErrNotFound = &AppError{Kind: KindNotFound}
	// ErrForbidden matches any forbidden error with errors.Is.
	ErrForbidden = &AppError{Kind: KindForbidden}
	// ErrPreconditionFailed matches any precondition failure with errors.Is.
	ErrPreconditionFailed = &AppError{Kind: KindPreconditionFailed}
	// ErrConflict matches any conflict error with errors.Is.
	ErrConflict = &AppError{Kind: KindConflict}
	// ErrInvalidArgument matches any invalid-argument error with errors.Is.
	ErrInvalidArgument = &AppError{Kind: KindInvalidArgument}
	// ErrUnauthenticated matches any unauthenticated error with errors.Is.
	ErrUnauthenticated = &AppError{Kind: KindUnauthenticated}
	// ErrInternal matches any internal error with errors.Is.
	ErrInternal = &AppError{Kind: KindInternal}
)

// NotFound reports a missing entity.
func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

// Forbidden reports that the actor may not perform the operation.
func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// PreconditionFailed reports an entity in the wrong state.
func PreconditionFailed(message string) *AppError {
	return &AppError{Kind: KindPreconditionFailed, Message: message}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// InvalidArgument reports out-of-range input.
func InvalidArgument(message string) *AppError {
	return &AppError{Kind: KindInvalidArgument, Message: message}
}

// Unauthenticated reports a missing or unverifiable identity.
func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

// Internal wraps a storage or infrastructure failure.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal causes are not exposed.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	switch appErr.Kind {
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, appErr.Message, "NOT_FOUND")
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, appErr.Message, "FORBIDDEN")
	case KindPreconditionFailed:
		return NewHTTPError(http.StatusBadRequest, appErr.Message, "PRECONDITION_FAILED")
	case KindConflict:
		return NewHTTPError(http.StatusConflict, appErr.Message, "CONFLICT")
	case KindInvalidArgument:
		return NewHTTPError(http.StatusBadRequest, appErr.Message, "INVALID_ARGUMENT")
	case KindUnauthenticated:
		return NewHTTPError(http.StatusUnauthorized, appErr.Message, "UNAUTHENTICATED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
