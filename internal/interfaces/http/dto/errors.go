package dto

import "net/http"

// General error codes used by the HTTP layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Input problems map to 400, missing resources to 404, conflicts to 409
// and business rule rejections to 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Input validation -> 400 Bad Request
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_SKU":            http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_STOCK":          http.StatusBadRequest,
	"INVALID_REASON":         http.StatusBadRequest,
	"INVALID_TAX_RATE":       http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	ErrCodeNotFound: http.StatusNotFound,

	// Conflicts -> 409 Conflict
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_SETTLEMENT": http.StatusConflict,

	// Business rule rejections -> 422 Unprocessable Entity
	"OVERPAYMENT_REJECTED":   http.StatusUnprocessableEntity,
	"NO_OUTSTANDING_BALANCE": http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"EMPTY_CART":             http.StatusUnprocessableEntity,
	"EXCEEDS_REMAINING":      http.StatusUnprocessableEntity,
	"EXCEEDS_PAID":           http.StatusUnprocessableEntity,
	"HAS_PAYMENTS":           http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,

	// Partial settlement writes need operator attention -> 500
	"SETTLEMENT_PERSISTENCE": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
