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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes for the Zakat obligation engine. Each rejected operation
// carries one of these codes together with a human-readable explanation.
const (
	ErrCodeUnknownMethodology         = "UNKNOWN_METHODOLOGY"
	ErrCodeMethodologyParameterMissing = "METHODOLOGY_PARAMETER_MISSING"
	ErrCodeAssetCategoryIneligible    = "ASSET_CATEGORY_INELIGIBLE"
	ErrCodeConflictingModifierFlags   = "CONFLICTING_MODIFIER_FLAGS"
	ErrCodeModifierNotApplicable      = "MODIFIER_NOT_APPLICABLE"
	ErrCodeThresholdAlreadyLocked     = "THRESHOLD_ALREADY_LOCKED"
	ErrCodeHawlNotComplete            = "HAWL_NOT_COMPLETE"
	ErrCodeActiveHawlAlreadyExists    = "ACTIVE_HAWL_ALREADY_EXISTS"
	ErrCodeRecordNotFound             = "RECORD_NOT_FOUND"
	ErrCodeInvalidUnlockReason        = "INVALID_UNLOCK_REASON"
	ErrCodeImmutableRecord            = "IMMUTABLE_RECORD"
)

// IsDomainErrorCode reports whether err is a DomainError carrying the given code.
func IsDomainErrorCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
