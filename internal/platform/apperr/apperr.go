// Copyright (c) 2026 Pagebound. All rights reserved.

/*
Package apperr defines the one error type the whole service speaks.

Storage and service code wrap their failures as [AppError] values so the
transport layer can translate any error into a stable HTTP status and
machine-readable code without inspecting its origin.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError pairs a machine-readable code with a client-safe message and
// the HTTP status the transport layer should answer with.
//
// Cause is for server logs only. It is never serialized, so internal
// detail (SQL text, connection addresses) cannot leak to clients.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one input field that failed validation and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

func newError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NotFound builds the 404 for a named resource, e.g. NotFound("Book")
// renders "Book not found".
func NotFound(resource string) *AppError {
	return newError("NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict builds the 409 used for duplicates and blocked deletions.
func Conflict(msg string) *AppError {
	return newError("CONFLICT", msg, http.StatusConflict)
}

// ValidationError builds the 400 carrying per-field failures.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := newError("VALIDATION_ERROR", msg, http.StatusBadRequest)
	err.Details = details
	return err
}

// Unprocessable builds the 422 for writes referencing records that do
// not exist.
func Unprocessable(msg string) *AppError {
	return newError("UNPROCESSABLE", msg, http.StatusUnprocessableEntity)
}

// Internal builds the generic 500. The cause is kept for logging only.
func Internal(cause error) *AppError {
	err := newError("INTERNAL_ERROR", "An unexpected error occurred", http.StatusInternalServerError)
	err.Cause = cause
	return err
}

// StoreUnavailable builds the 503 for backing store connectivity
// failures. There is no local recovery; the caller decides whether to
// retry.
func StoreUnavailable(cause error) *AppError {
	err := newError("STORE_UNAVAILABLE", "The data store is temporarily unavailable", http.StatusServiceUnavailable)
	err.Cause = cause
	return err
}

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
