package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_005"
	ErrCodeTimeout       ErrorCode = "COMMON_009"
	ErrCodeValidation    ErrorCode = "COMMON_010"
	ErrCodeSerialization ErrorCode = "COMMON_011"
	ErrCodeConfig        ErrorCode = "COMMON_017"
)

// Statistics API error codes.
const (
	ErrCodeAPITransport ErrorCode = "API_001"
	ErrCodeAPIStatus    ErrorCode = "API_002"
	ErrCodeAPIDecode    ErrorCode = "API_003"
)

// View controller error codes.
const (
	ErrCodeViewStale     ErrorCode = "VIEW_001"
	ErrCodeViewNoData    ErrorCode = "VIEW_002"
	ErrCodeViewUnknown   ErrorCode = "VIEW_003"
	ErrCodeViewSelection ErrorCode = "VIEW_004"
)

// Short aliases used at call sites.
const (
	CodeOK            = ErrorCode("OK")
	CodeUnknown       = ErrorCode("UNKNOWN")
	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeTimeout       = ErrCodeTimeout
	CodeInvalidConfig = ErrCodeConfig
	CodeTransport     = ErrCodeAPITransport
	CodeAPIStatus     = ErrCodeAPIStatus
	CodeDecode        = ErrCodeAPIDecode
	CodeStale         = ErrCodeViewStale
	CodeNoData        = ErrCodeViewNoData
	CodeUnknownView   = ErrCodeViewUnknown
	CodeSelection     = ErrCodeViewSelection
)

// ErrorCodeHTTPStatus maps ErrorCodes to the status the dashboard server
// answers with.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeTimeout:       http.StatusGatewayTimeout,
	ErrCodeValidation:    http.StatusUnprocessableEntity,
	ErrCodeSerialization: http.StatusInternalServerError,
	ErrCodeConfig:        http.StatusInternalServerError,

	ErrCodeAPITransport: http.StatusBadGateway,
	ErrCodeAPIStatus:    http.StatusBadGateway,
	ErrCodeAPIDecode:    http.StatusBadGateway,

	ErrCodeViewStale:     http.StatusConflict,
	ErrCodeViewNoData:    http.StatusNotFound,
	ErrCodeViewUnknown:   http.StatusNotFound,
	ErrCodeViewSelection: http.StatusNotFound,
}

// ErrorCodeMessage holds the default message per code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeBadRequest:    "invalid parameter",
	ErrCodeNotFound:      "resource not found",
	ErrCodeTimeout:       "operation timed out",
	ErrCodeValidation:    "validation failed",
	ErrCodeSerialization: "serialization failed",
	ErrCodeConfig:        "invalid configuration",

	ErrCodeAPITransport: "statistics service unreachable",
	ErrCodeAPIStatus:    "statistics service returned an error",
	ErrCodeAPIDecode:    "statistics service returned an unreadable payload",

	ErrCodeViewStale:     "request superseded",
	ErrCodeViewNoData:    "view has no data",
	ErrCodeViewUnknown:   "unknown view",
	ErrCodeViewSelection: "selected entity not present",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of code ("COMMON", "API", "VIEW").
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
