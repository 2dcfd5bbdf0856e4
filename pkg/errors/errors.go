package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound            = "NOT_FOUND"
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
	CodeValidation          = "VALIDATION_ERROR"
	CodeIdentityUnavailable = "IDENTITY_UNAVAILABLE"
	CodeStore               = "STORE_ERROR"
	CodeNotContacted        = "NOT_CONTACTED"
	CodeAlreadyCancelled    = "ALREADY_CANCELLED"
	CodeNotCancellable      = "NOT_CANCELLABLE"
	CodeRatingCancelled     = "RATING_CANCELLED"
	CodeNoRatingFound       = "NO_RATING_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
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

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Conflict marks a unique-key violation reported by the store.
func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Store marks a network or transient store failure.
func Store(message string, err error) *AppError {
	return &AppError{
		Code:    CodeStore,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func IdentityUnavailable(err error) *AppError {
	return &AppError{
		Code:    CodeIdentityUnavailable,
		Message: "Unable to resolve the current user",
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func NotContacted() *AppError {
	return &AppError{
		Code:    CodeNotContacted,
		Message: "You can only rate sellers you have contacted",
		Status:  http.StatusForbidden,
	}
}

func AlreadyCancelled() *AppError {
	return &AppError{
		Code:    CodeAlreadyCancelled,
		Message: "Rating has already been cancelled",
		Status:  http.StatusConflict,
	}
}

func NotCancellable() *AppError {
	return &AppError{
		Code:    CodeNotCancellable,
		Message: "Rating can no longer be cancelled",
		Status:  http.StatusConflict,
	}
}

func RatingCancelled() *AppError {
	return &AppError{
		Code:    CodeRatingCancelled,
		Message: "Rating was cancelled and cannot be submitted again",
		Status:  http.StatusConflict,
	}
}

func NoRatingFound() *AppError {
	return &AppError{
		Code:    CodeNoRatingFound,
		Message: "No rating found for this seller",
		Status:  http.StatusNotFound,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
