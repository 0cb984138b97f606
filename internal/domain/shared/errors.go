package shared

// DomainError represents a domain-level error with a stable code that
// callers can match on. Every failure mode the core exposes maps to
// exactly one code.
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
	// ErrNotFound is returned both when a row does not exist and when it
	// exists but belongs to another tenant. The two cases are deliberately
	// indistinguishable to the caller.
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists         = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict   = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrAccessDenied          = NewDomainError("ACCESS_DENIED", "Operation crosses tenant boundary")
	ErrInvalidState          = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidQuantity       = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInsufficientStock     = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrTotalMismatch         = NewDomainError("TOTAL_MISMATCH", "Reported total does not match order total")
	ErrNoDestinationLocation = NewDomainError("NO_DESTINATION_LOCATION", "Buyer organization has no stock location")
)
