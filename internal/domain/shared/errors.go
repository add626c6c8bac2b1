package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConfigurationMissing = NewDomainError("CONFIG_MISSING", "Source catalog credentials are not configured")
	ErrSourceUnavailable    = NewDomainError("SOURCE_UNAVAILABLE", "Source catalog is unreachable")
)

// NewStepFailure wraps an unexpected per-step failure so the caller can
// surface it without retrying.
func NewStepFailure(message string) *DomainError {
	return NewDomainError("STEP_FAILED", message)
}
