package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error category independent of its message.
type ErrorCode string

const (
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrValidation    ErrorCode = "VALIDATION_FAILURE"
	ErrStorage       ErrorCode = "STORAGE_FAILURE"
	ErrUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrForbidden     ErrorCode = "FORBIDDEN"

	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
	ErrImport     ErrorCode = "IMPORT"
)

// AppError is a structured error with a stable code and optional details.
type AppError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *AppError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Wrapped
}

// Is matches any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Details: make(map[string]interface{})}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func IsErrorCode(err error, code ErrorCode) bool {
	var e *AppError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns ErrUnknown for errors that are not AppErrors.
func GetErrorCode(err error) ErrorCode {
	var e *AppError
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// HTTPStatus maps an error to the response status the API reports.
func HTTPStatus(err error) int {
	switch GetErrorCode(err) {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation, ErrInvalidInput:
		return http.StatusBadRequest
	case ErrAlreadyExists:
		return http.StatusConflict
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
