package model

import "fmt"

// Standard error codes surfaced to API clients.
const (
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeRepositoryUnavailable = "REPOSITORY_UNAVAILABLE"
	ErrCodeWriteConflict         = "WRITE_CONFLICT"
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardised error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// DomainError is a typed business-logic failure. Field is set for
// validation failures that concern a single draft field.
type DomainError struct {
	Code    string
	Field   string
	Message string
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a field-level validation failure.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Field:   field,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound       = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrForbidden             = NewDomainError(ErrCodeForbidden, "Only the owning seller may modify this product")
	ErrRepositoryUnavailable = NewDomainError(ErrCodeRepositoryUnavailable, "Catalog store is unavailable")
	ErrWriteConflict         = NewDomainError(ErrCodeWriteConflict, "Write conflicted with an existing record")
)
