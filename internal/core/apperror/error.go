// Package apperror provides structured error handling for the catalog backend and its clients.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal    = "INTERNAL_ERROR"
	CodeDatabase    = "DATABASE_ERROR"
	CodeUnavailable = "SERVICE_UNAVAILABLE"

	// Validation errors (400)
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeAlreadyRetired = "ALREADY_RETIRED"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409). The lifecycle codes travel verbatim in the
	// "status" field of the conflict body and are decoded by clients.
	CodeConflict          = "CONFLICT"
	CodeDuplicateRetired  = "EXISTE_INACTIVO"
	CodeDuplicateActive   = "EXISTE_ACTIVO"
	CodeHasActiveChildren = "TIENE_HIJOS_ACTIVOS"
)

// Detail keys used by lifecycle conflicts.
const (
	DetailInactiveID = "id_inactivo"
	DetailField      = "campo"
	DetailMessage    = "message"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, conflicting ids, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// IsLifecycleConflict reports whether the error carries one of the
// structured conflict statuses understood by clients.
func (e *AppError) IsLifecycleConflict() bool {
	switch e.Code {
	case CodeDuplicateRetired, CodeDuplicateActive, CodeHasActiveChildren:
		return true
	}
	return false
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s no encontrado", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewAlreadyRetired is returned when a retired record is retired again (400).
func NewAlreadyRetired(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeAlreadyRetired,
		Message:    fmt.Sprintf("%s ya está dado de baja", entity),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Error interno del servidor",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnavailable creates an error for a missing backing service (503).
func NewUnavailable(message string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewConflict creates a generic conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicateRetired reports that a retired record already holds the code (409).
// Clients may offer to reactivate inactiveID instead of creating a new record.
func NewDuplicateRetired(entity, field, inactiveID string) *AppError {
	return &AppError{
		Code:       CodeDuplicateRetired,
		Message:    fmt.Sprintf("%s con ese %s existe dado de baja", entity, field),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			DetailInactiveID: inactiveID,
			DetailField:      field,
		},
	}
}

// NewDuplicateActive reports that an active record already holds the code (409).
func NewDuplicateActive(entity, field string) *AppError {
	return &AppError{
		Code:       CodeDuplicateActive,
		Message:    fmt.Sprintf("%s con ese %s ya existe", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{DetailField: field},
	}
}

// NewHasActiveChildren blocks a retirement while active dependents exist (409).
func NewHasActiveChildren(message string) *AppError {
	return &AppError{
		Code:       CodeHasActiveChildren,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{DetailMessage: message},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// HasCode checks if error carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
