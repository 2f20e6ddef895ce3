package dto

import (
	"net/http"

	"github.com/zakatledger/backend/internal/domain/shared"
)

// Transport-level error codes. Domain error codes pass through to clients
// unchanged; these cover failures that never reach the domain.
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is the base code for request validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// keep their catalogued names on the wire so clients can branch on them.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:      http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Bad input -> 400
	shared.ErrCodeUnknownMethodology:         http.StatusBadRequest,
	shared.ErrCodeMethodologyParameterMissing: http.StatusBadRequest,
	shared.ErrCodeAssetCategoryIneligible:    http.StatusBadRequest,
	shared.ErrCodeConflictingModifierFlags:   http.StatusBadRequest,
	shared.ErrCodeModifierNotApplicable:      http.StatusBadRequest,
	shared.ErrCodeInvalidUnlockReason:        http.StatusBadRequest,

	// Missing resources -> 404
	shared.ErrCodeRecordNotFound: http.StatusNotFound,
	"NOT_FOUND":                  http.StatusNotFound,

	// Conflicting state -> 409
	shared.ErrCodeActiveHawlAlreadyExists: http.StatusConflict,
	shared.ErrCodeThresholdAlreadyLocked:  http.StatusConflict,
	"ALREADY_EXISTS":                      http.StatusConflict,
	"CONCURRENCY_CONFLICT":                http.StatusConflict,

	"INVALID_INPUT": http.StatusBadRequest,

	// Rule violations -> 422
	shared.ErrCodeHawlNotComplete: http.StatusUnprocessableEntity,
	shared.ErrCodeImmutableRecord: http.StatusUnprocessableEntity,
	"INVALID_STATE":               http.StatusUnprocessableEntity,
	"THRESHOLD_NOT_MET":           http.StatusUnprocessableEntity,

	// Record validation failures from the asset subsystem -> 400
	"INVALID_LABEL":    http.StatusBadRequest,
	"INVALID_CATEGORY": http.StatusBadRequest,
	"INVALID_VALUE":    http.StatusBadRequest,
	"INVALID_KIND":     http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_AMOUNT":   http.StatusBadRequest,
	"INVALID_CURRENCY": http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
