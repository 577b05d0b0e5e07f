package dto

import (
	"errors"
	"net/http"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Error types returned in the "type" field of error bodies
const (
	ErrorTypeNotFound        = "not_found"
	ErrorTypeInvalidData     = "invalid_data"
	ErrorTypeNotAllowed      = "not_allowed"
	ErrorTypeDuplicate       = "duplicate_error"
	ErrorTypeConflict        = "conflict"
	ErrorTypeUnauthorized    = "unauthorized"
	ErrorTypeForbidden       = "forbidden"
	ErrorTypeInvalidState    = "invalid_state"
	ErrorTypeUnexpected      = "unexpected_state"
	ErrorTypeTooManyRequests = "too_many_requests"
	ErrorTypePayloadTooLarge = "payload_too_large"
)

// ErrorTypeHTTPStatus maps error types to HTTP status codes
var ErrorTypeHTTPStatus = map[string]int{
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeInvalidData:     http.StatusBadRequest,
	ErrorTypeNotAllowed:      http.StatusBadRequest,
	ErrorTypeDuplicate:       http.StatusUnprocessableEntity,
	ErrorTypeConflict:        http.StatusConflict,
	ErrorTypeUnauthorized:    http.StatusUnauthorized,
	ErrorTypeForbidden:       http.StatusForbidden,
	ErrorTypeInvalidState:    http.StatusBadRequest,
	ErrorTypeUnexpected:      http.StatusInternalServerError,
	ErrorTypeTooManyRequests: http.StatusTooManyRequests,
	ErrorTypePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// codeTypes maps domain error codes to error types
var codeTypes = map[string]string{
	shared.CodeNotFound:        ErrorTypeNotFound,
	shared.CodeInvalidArgument: ErrorTypeInvalidData,
	shared.CodeNotAllowed:      ErrorTypeNotAllowed,
	shared.CodeDuplicate:       ErrorTypeDuplicate,
	shared.CodeConflict:        ErrorTypeConflict,
	shared.CodeUnauthorized:    ErrorTypeUnauthorized,
	shared.CodeForbidden:       ErrorTypeForbidden,
	shared.CodeInvalidState:    ErrorTypeInvalidState,
	shared.CodeUnexpected:      ErrorTypeUnexpected,
}

// GetHTTPStatus returns the status for an error type, 500 when unknown
func GetHTTPStatus(errorType string) int {
	if status, ok := ErrorTypeHTTPStatus[errorType]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorTypeFor returns the error type of a domain error code
func ErrorTypeFor(code string) string {
	if t, ok := codeTypes[code]; ok {
		return t
	}
	return ErrorTypeUnexpected
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Type      string             `json:"type"`
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one invalid field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse creates an error body
func NewErrorResponse(errorType, code, message, requestID string) ErrorResponse {
	return ErrorResponse{Type: errorType, Code: code, Message: message, RequestID: requestID}
}

// NewValidationErrorResponse creates an invalid_data body listing the failed fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	return ErrorResponse{
		Type:      ErrorTypeInvalidData,
		Code:      shared.CodeInvalidArgument,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}
}

// FromError converts an error into a status and body. Errors that are not
// domain errors become 500 unexpected_state without leaking their message.
func FromError(err error, requestID string) (int, ErrorResponse) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		errorType := ErrorTypeFor(domainErr.Code)
		return GetHTTPStatus(errorType), NewErrorResponse(errorType, domainErr.Code, domainErr.Message, requestID)
	}
	return http.StatusInternalServerError, NewErrorResponse(
		ErrorTypeUnexpected, shared.CodeUnexpected, "An unexpected error occurred", requestID)
}
