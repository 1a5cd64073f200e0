package shared

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// AppError is the error type understood by the HTTP error handler.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Data       interface{}
	Err        error
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

func newAppError(statusCode int, code string, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, ErrCodeBadRequest, err, message)
}

func NewValidationError(err error, message string, details interface{}) *AppError {
	appErr := newAppError(http.StatusBadRequest, ErrCodeValidation, err, message)
	appErr.Data = details
	return appErr
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, ErrCodeUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return newAppError(http.StatusForbidden, ErrCodeForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, ErrCodeNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(http.StatusConflict, ErrCodeConflict, err, message)
}

// NewPreconditionFailedError reports a request that is valid but cannot be served yet.
// The data payload is returned to the caller.
func NewPreconditionFailedError(message string, data interface{}) *AppError {
	appErr := newAppError(http.StatusBadRequest, ErrCodePreconditionFailed, nil, message)
	appErr.Data = data
	return appErr
}

func NewTooManyRequestsError(message string, data interface{}) *AppError {
	appErr := newAppError(http.StatusTooManyRequests, ErrCodeTooManyRequests, nil, message)
	appErr.Data = data
	return appErr
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, ErrCodeInternal, err, message)
}

func NewUnavailableError(err error, message string) *AppError {
	return newAppError(http.StatusServiceUnavailable, ErrCodeUnavailable, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorCode reports whether err carries the given AppError code.
func IsErrorCode(err error, code string) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}
