package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"smtm/internal/domain/account"
	"smtm/internal/domain/transaction"
	"smtm/internal/shared/middleware"
)

const (
	msgNotAuthenticated = "Not authenticated"
	msgNotFound         = "Entity not found"
	msgExists           = "Entity already exists"
	msgConflict         = "Property conflict"
	msgMalformed        = "Malformed request"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Internal error"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps domain errors to their fixed status and message.
// Unknown errors are logged and reported as internal.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, transaction.ErrMalformed), errors.Is(err, account.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgMalformed)
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, transaction.ErrAccountNotFound),
		errors.Is(err, transaction.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, account.ErrAccountExists):
		writeError(w, http.StatusConflict, msgExists)
	case errors.Is(err, account.ErrNameConflict):
		writeError(w, http.StatusConflict, msgConflict)
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// ownerFrom returns the caller's user ID, answering the request itself when there is none.
func ownerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, msgNotAuthenticated)
		return "", false
	}
	return id.UserID, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
