package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of an application error.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeConflict         Code = "CONFLICT"
	CodeStorageFailure   Code = "STORAGE_FAILURE"
)

// AppError is the error type every handler-visible failure maps onto.
type AppError struct {
	Code     Code   `json:"code"`
	Message  string `json:"message"`
	HTTPCode int    `json:"-"`
	Err      error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing actor, target, post or notification.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, HTTPCode: http.StatusNotFound}
}

// InvalidOperation reports a structurally invalid request, e.g. a self-follow.
func InvalidOperation(message string) *AppError {
	return &AppError{Code: CodeInvalidOperation, Message: message, HTTPCode: http.StatusBadRequest}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, HTTPCode: http.StatusUnauthorized}
}

// Forbidden reports an ownership mismatch.
func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, HTTPCode: http.StatusForbidden}
}

// Conflict reports a uniqueness violation, e.g. a duplicate registration.
func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, HTTPCode: http.StatusConflict}
}

// Storage wraps a storage-layer failure.
func Storage(message string, err error) *AppError {
	return &AppError{Code: CodeStorageFailure, Message: message, HTTPCode: http.StatusInternalServerError, Err: err}
}

// From normalizes an arbitrary error into an *AppError. Unknown errors
// surface as storage failures so no opaque fault leaks to the transport.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Storage("internal error", err)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
