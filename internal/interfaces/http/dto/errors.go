package dto

import "net/http"

// Error codes surfaced by the sync API. These match the codes on
// shared.DomainError so handlers can pass them through unchanged.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConfigMissing is used when the source connection is not configured
	ErrCodeConfigMissing = "CONFIG_MISSING"
	// ErrCodeSourceUnavailable is used when the source database cannot be reached
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	// ErrCodeStepFailed is used when a sync step fails mid-write
	ErrCodeStepFailed = "STEP_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	// Operator configuration is absent: the service is up but cannot sync.
	ErrCodeConfigMissing: http.StatusServiceUnavailable,
	// The upstream legacy database is down or unreachable.
	ErrCodeSourceUnavailable: http.StatusBadGateway,
	ErrCodeStepFailed:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
