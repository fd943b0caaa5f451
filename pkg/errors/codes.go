package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are grouped by a module prefix ("COMMON", "DB", "SEARCH") followed by
// a three digit sequence number.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeUnknown            ErrorCode = "COMMON_000"
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Database Error Codes
const (
	ErrCodeDBConnection ErrorCode = "DB_001"
	ErrCodeDBQuery      ErrorCode = "DB_002"
	ErrCodeDBScan       ErrorCode = "DB_003"
)

// Search Module Error Codes
const (
	// ErrCodeInvalidCriteria: no search field supplied or a field failed shape
	// validation. Raised before the registry is touched.
	ErrCodeInvalidCriteria ErrorCode = "SEARCH_001"
	// ErrCodeBackendUnavailable: the registry could not be reached or timed out.
	ErrCodeBackendUnavailable ErrorCode = "SEARCH_002"
	// ErrCodeTrademarkNotFound: point lookup of an application number found nothing.
	ErrCodeTrademarkNotFound ErrorCode = "SEARCH_003"
	// ErrCodeResolutionGap: a candidate vanished between the id phase and the
	// detail phase. Logged, never returned to callers.
	ErrCodeResolutionGap ErrorCode = "SEARCH_004"
	// ErrCodeMalformedFragment: a registry fragment did not match its expected
	// shape. Logged at debug level and dropped.
	ErrCodeMalformedFragment ErrorCode = "SEARCH_005"
	ErrCodeUnsupportedMode   ErrorCode = "SEARCH_006"
)

// Short aliases used across the code base.
const (
	CodeOK       = ErrorCode("OK")
	CodeUnknown  = ErrCodeUnknown
	CodeInternal = ErrCodeInternal

	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests

	CodeDBConnectionError = ErrCodeDBConnection
	CodeDBQueryError      = ErrCodeDBQuery
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeExternalService
	CodeStorageError      = ErrCodeExternalService

	CodeInvalidCriteria    = ErrCodeInvalidCriteria
	CodeBackendUnavailable = ErrCodeBackendUnavailable
	CodeTrademarkNotFound  = ErrCodeTrademarkNotFound
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDBConnection: http.StatusServiceUnavailable,
	ErrCodeDBQuery:      http.StatusInternalServerError,
	ErrCodeDBScan:       http.StatusInternalServerError,

	ErrCodeInvalidCriteria:    http.StatusBadRequest,
	ErrCodeBackendUnavailable: http.StatusServiceUnavailable,
	ErrCodeTrademarkNotFound:  http.StatusNotFound,
	ErrCodeResolutionGap:      http.StatusInternalServerError,
	ErrCodeMalformedFragment:  http.StatusInternalServerError,
	ErrCodeUnsupportedMode:    http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeUnknown:            "unknown error",
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDBConnection: "database connection failed",
	ErrCodeDBQuery:      "database query failed",
	ErrCodeDBScan:       "failed to decode database row",

	ErrCodeInvalidCriteria:    "invalid search criteria",
	ErrCodeBackendUnavailable: "trademark registry unavailable, try again later",
	ErrCodeTrademarkNotFound:  "trademark application not found",
	ErrCodeResolutionGap:      "candidate could not be resolved",
	ErrCodeMalformedFragment:  "malformed registry fragment",
	ErrCodeUnsupportedMode:    "unsupported search mode",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// IsRetryable reports whether a caller may reasonably retry the failed call
// unchanged. Criteria errors are never retryable.
func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeBackendUnavailable, ErrCodeServiceUnavailable, ErrCodeTimeout, ErrCodeDBConnection:
		return true
	}
	return false
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
