package dto

import "net/http"

// Error codes returned in the "code" field of client error bodies.
// Domain errors keep their own code; these cover what the HTTP layer raises itself.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenNotValid      = "TOKEN_NOT_VALID"
	ErrCodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
	ErrCodeUserProtected      = "USER_PROTECTED"
	ErrCodeConflict           = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeThrottled          = "THROTTLED"
	ErrCodeIPBlocked          = "IP_BLOCKED"
	ErrCodeBodyTooLarge       = "REQUEST_TOO_LARGE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenNotValid:      http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeUserProtected: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeAlreadyExists: http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeThrottled: http.StatusTooManyRequests,
	ErrCodeIPBlocked: http.StatusTooManyRequests,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown domain codes are client errors: 400 Bad Request.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[NormalizeErrorCode(code)]; ok {
		return status
	}
	return http.StatusBadRequest
}

// ErrorCodeAliases folds the variant codes raised by lower layers onto the codes clients see
var ErrorCodeAliases = map[string]string{
	"USER_NOT_FOUND":    ErrCodeNotFound,
	"EMAIL_EXISTS":      ErrCodeAlreadyExists,
	"TOKEN_EXPIRED":     ErrCodeTokenNotValid,
	"TOKEN_INVALID":     ErrCodeTokenNotValid,
	"VALIDATION_FAILED": ErrCodeValidation,
	"RATE_LIMITED":      ErrCodeThrottled,
}

// NormalizeErrorCode converts an alias to its canonical code.
// Canonical and unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if canonical, ok := ErrorCodeAliases[code]; ok {
		return canonical
	}
	return code
}
