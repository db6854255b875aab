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

// Domain error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnknownTable       = "UNKNOWN_TABLE"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeStorageError       = "STORAGE_ERROR"
)

// maxErrorDetail caps how much of an underlying storage error is surfaced
// to callers.
const maxErrorDetail = 80

// StorageError wraps an underlying database error as a domain error,
// truncating the driver detail before it can reach a client.
func StorageError(err error) *DomainError {
	msg := err.Error()
	if len(msg) > maxErrorDetail {
		msg = msg[:maxErrorDetail]
	}
	return NewDomainError(CodeStorageError, msg)
}

// Common domain errors
var (
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrClientIDRequired   = NewDomainError(CodeInvalidInput, "client_id required")
	ErrUnknownTable       = NewDomainError(CodeUnknownTable, "Unknown table")
	ErrStorageUnavailable = NewDomainError(CodeStorageUnavailable, "Storage is not initialized")
	ErrStorage            = NewDomainError(CodeStorageError, "Storage operation failed")
)
