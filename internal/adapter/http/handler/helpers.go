package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atelier-erp/cashbox/internal/adapter/http/dto"
	"github.com/atelier-erp/cashbox/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Insufficient funds
// is a well-formed request the ledger refuses, hence 422 rather than 400.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBranchNotFound),
		errors.Is(err, domain.ErrCashboxNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrCashboxInactive),
		errors.Is(err, domain.ErrActorRequired),
		errors.Is(err, domain.ErrEntryAlreadyReversed),
		errors.Is(err, domain.ErrCannotReverseReversal),
		errors.Is(err, domain.ErrInvalidBranchName),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrMetadataTooLarge),
		errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
