package dto

import "net/http"

// Standardized API error codes
const (
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodePeriodLocked        = "ERR_PERIOD_LOCKED"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInternal            = "ERR_INTERNAL"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodePeriodLocked:        http.StatusUnprocessableEntity,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an API error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps raw domain error codes to API error codes
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeValidation,
	"INVALID_PERIOD":            ErrCodeValidation,
	"INVALID_AMOUNT":            ErrCodeValidation,
	"INVALID_TYPE":              ErrCodeValidation,
	"INVALID_DESCRIPTION":       ErrCodeValidation,
	"INVALID_REFERENCE_DATE":    ErrCodeValidation,
	"INVALID_CASH_FLOW_DATE":    ErrCodeValidation,
	"INVALID_QUANTITY":          ErrCodeValidation,
	"INVALID_GROUPS":            ErrCodeValidation,
	"INVALID_STATE":             ErrCodeInvalidState,
	"INVALID_STATUS_TRANSITION": ErrCodeInvalidState,
	"ALREADY_CONFIRMED":         ErrCodeInvalidState,
	"PERIOD_LOCKED":             ErrCodePeriodLocked,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
}

// NormalizeErrorCode converts a raw domain error code to an API error code
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainErrorCodeMapping[code]; ok {
		return normalized
	}
	return ErrCodeInternal
}
