package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"market-stall/internal/model"

	"github.com/rs/zerolog"
)

// SellerIDHeader carries the authenticated seller identity. The surrounding
// platform authenticates the caller; this service trusts the header behind
// API-key auth.
const SellerIDHeader = "X-Seller-ID"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response already partially written; nothing useful left to do.
		return
	}
}

// writeError writes a plain error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: model.ErrCodeInternalError, Message: message})
}

// writeDomainError maps a service error onto the HTTP status for its kind.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	status := statusForCode(de.Code)
	logger.Warn().
		Str("code", de.Code).
		Str("field", de.Field).
		Int("status", status).
		Msg(de.Message)

	writeJSON(w, status, model.ErrorResponse{
		Error:   de.Code,
		Field:   de.Field,
		Message: de.Message,
	})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeWriteConflict:
		return http.StatusConflict
	case model.ErrCodeRepositoryUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
