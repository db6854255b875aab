package dto

import (
	"net/http"

	"github.com/smartledger/backend/internal/domain/shared"
)

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>

const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeUnknownTable is used when a logical table name is not registered
	ErrCodeUnknownTable = "ERR_UNKNOWN_TABLE"
	// ErrCodeStorageUnavailable is used when the storage gateway was never initialized
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
	// ErrCodeStorage is used for database query/update failures
	ErrCodeStorage = "ERR_STORAGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeUnknownTable:       http.StatusNotFound,
	ErrCodeStorageUnavailable: http.StatusInternalServerError,
	ErrCodeStorage:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to transport error codes.
var domainErrorCodeMapping = map[string]string{
	shared.CodeInvalidInput:       ErrCodeInvalidInput,
	shared.CodeUnknownTable:       ErrCodeUnknownTable,
	shared.CodeStorageUnavailable: ErrCodeStorageUnavailable,
	shared.CodeStorageError:       ErrCodeStorage,
}

// NormalizeErrorCode converts a domain error code to the transport format.
// Unknown codes map to ERR_INTERNAL.
func NormalizeErrorCode(code string) string {
	if newCode, ok := domainErrorCodeMapping[code]; ok {
		return newCode
	}
	return ErrCodeInternal
}
