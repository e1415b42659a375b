package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Validation errors
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrConversion   ErrorCode = "CONVERSION_ERROR"

	// Resource errors
	ErrNotFound ErrorCode = "NOT_FOUND"
	ErrConflict ErrorCode = "CONFLICT"

	// Storage errors
	ErrDecodeError   ErrorCode = "DECODE_ERROR"
	ErrMissingRecipe ErrorCode = "RECIPES_FILE_MISSING"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured API error
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a new APIError
func New(code ErrorCode, message string, httpStatus int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// WithDetails adds details to an error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// Common error constructors
func NotFound(resource string) *APIError {
	return New(ErrNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Validation(message string) *APIError {
	return New(ErrValidation, message, http.StatusBadRequest)
}

func InvalidInput(message string) *APIError {
	return New(ErrInvalidInput, message, http.StatusBadRequest)
}

func Conflict(message string) *APIError {
	return New(ErrConflict, message, http.StatusConflict)
}

func Conversion(message string) *APIError {
	return New(ErrConversion, message, http.StatusUnprocessableEntity)
}

func MissingRecipe() *APIError {
	return New(ErrMissingRecipe, "Recipe document is missing", http.StatusServiceUnavailable)
}

func DecodeError(err error) *APIError {
	return New(ErrDecodeError, "document is not valid JSON", http.StatusInternalServerError).WithDetails(err.Error())
}

func Internal(message string) *APIError {
	return New(ErrInternal, message, http.StatusInternalServerError)
}
