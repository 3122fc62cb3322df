// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// Application-level sentinel errors. Services wrap these in an AppError;
// webutil maps them to HTTP status codes.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternalServer   = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInsufficientData = errors.New("insufficient data")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
)

// AppError carries a machine-readable code and a user-facing message on top of
// the wrapped sentinel error.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
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

// Detail returns the client-facing projection of the error.
func (e *AppError) Detail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field,
	}
}

// ErrorDetail is the error payload sent to clients.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse is the envelope for all error responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
