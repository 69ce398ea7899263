package models

import "net/http"

// Error codes
const (
	// General errors
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"

	// Voting specific errors
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeCandidateNotFound = "CANDIDATE_NOT_FOUND"
	ErrCodeAlreadyVoted      = "ALREADY_VOTED"
	ErrCodeInvalidCandidate  = "INVALID_CANDIDATE"
	ErrCodeAdminCannotVote   = "ADMIN_CANNOT_VOTE"

	// Authentication errors
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
)

// APIError represents a structured API error
type APIError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    string            `json:"details,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	StatusCode int               `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// WithField adds a field error
func (e *APIError) WithField(field, message string) *APIError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// Info converts the error into the envelope's error block
func (e *APIError) Info() *ErrorInfo {
	return &ErrorInfo{Code: e.Code, Message: e.Message, Details: e.Details, Fields: e.Fields}
}

// InternalError is the generic response for unexpected failures
func InternalError() *APIError {
	return NewAPIError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// InvalidBody reports a request body that failed binding
func InvalidBody(details string) *APIError {
	return NewAPIError(ErrCodeInvalidRequest, "Invalid request body", http.StatusBadRequest).WithDetails(details)
}
