package shared

import (
	"errors"
	"fmt"
)

// Error codes understood by the HTTP layer. Each code maps to one
// response "type" and status (see dto.ErrorTypeHTTPStatus).
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_DATA"
	CodeNotAllowed      = "NOT_ALLOWED"
	CodeDuplicate       = "DUPLICATE_ERROR"
	CodeConflict        = "CONFLICT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInvalidState    = "INVALID_STATE"
	CodeUnexpected      = "UNEXPECTED_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches any not-found error regardless of message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the underlying cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidArgument = NewDomainError(CodeInvalidArgument, "Invalid data provided")
	ErrNotAllowed      = NewDomainError(CodeNotAllowed, "Operation not allowed")
	ErrDuplicate       = NewDomainError(CodeDuplicate, "Resource already exists")
	ErrConflict        = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrUnauthorized    = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden       = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState    = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// NotFound builds a not-found error naming the missing resource.
func NotFound(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s with id: %v was not found", resource, id))
}

// InvalidArgument builds an invalid-data error with a formatted message.
func InvalidArgument(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

// NotAllowed builds a not-allowed error with a formatted message.
func NotAllowed(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotAllowed, fmt.Sprintf(format, args...))
}

// Duplicate builds a duplicate error with a formatted message.
func Duplicate(format string, args ...any) *DomainError {
	return NewDomainError(CodeDuplicate, fmt.Sprintf(format, args...))
}
