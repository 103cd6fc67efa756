package dto

import "net/http"

// HTTP status mapping for domain error codes. Codes produced by the domain
// and application layers are used directly; anything unmapped is treated as
// an internal error so unexpected failures never leak a 2xx.
var errorCodeHTTPStatus = map[string]int{
	// Lookup failures
	"NOT_FOUND": http.StatusNotFound,

	// Optimistic locking exhausted its retries
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
	"PRODUCT_NOT_PRICED": http.StatusUnprocessableEntity,

	// Request validation
	"NO_STORE_CONTEXT":       http.StatusBadRequest,
	"UNKNOWN_STORE":          http.StatusBadRequest,
	"UNKNOWN_PRODUCT":        http.StatusBadRequest,
	"DUPLICATE_PRODUCT":      http.StatusBadRequest,
	"EMPTY_CART":             http.StatusBadRequest,
	"EMPTY_TRANSFER":         http.StatusBadRequest,
	"SAME_STORE":             http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_DISCOUNT":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_TAX_RATE":       http.StatusBadRequest,
	"INVALID_REASON":         http.StatusBadRequest,
	"INVALID_STORE":          http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"BAD_REQUEST":            http.StatusBadRequest,

	// Auth
	"UNAUTHORIZED": http.StatusUnauthorized,
	"FORBIDDEN":    http.StatusForbidden,

	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// Error codes the interface layer itself produces
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
