package apperrors

import (
	"errors"
	"net/http"
)

// AppError is an error that carries the HTTP status and message a client should see.
type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError attaches the underlying cause. The cause is logged, never sent to clients.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeUnprocessable = "UNPROCESSABLE_ENTITY"
	CodeIntegrity     = "INTEGRITY_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Unprocessable(message string) *AppError {
	return New(CodeUnprocessable, message, http.StatusUnprocessableEntity)
}

// Integrity is a storage constraint violation reported to the client as a bad request.
func Integrity(message string) *AppError {
	return New(CodeIntegrity, message, http.StatusBadRequest)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError)
}

func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
