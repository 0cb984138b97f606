package dto

import "net/http"

// Domain error codes surfaced by the API. Codes are stable; clients match on
// them rather than on messages.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"ACCESS_DENIED":        http.StatusForbidden,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_QUANTITY":     http.StatusBadRequest,

	// Business rule violations map to 422 Unprocessable Entity
	"INVALID_STATE":           http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":      http.StatusUnprocessableEntity,
	"TOTAL_MISMATCH":          http.StatusUnprocessableEntity,
	"NO_DESTINATION_LOCATION": http.StatusUnprocessableEntity,
	"EMPTY_ORDER":             http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
