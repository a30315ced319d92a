package controller

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailcampaign-backend/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// WriteError maps err to its status and caller-safe message. Internal errors
// were already logged where they happened.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, appErrors.StatusCode(err), errorResponse{Error: appErrors.Message(err)})
}

// WriteErrorMessage is WriteError with the message replaced for internal errors.
func WriteErrorMessage(w http.ResponseWriter, err error, internalMessage string) {
	status := appErrors.StatusCode(err)
	msg := appErrors.Message(err)
	if status == http.StatusInternalServerError {
		msg = internalMessage
	}
	WriteJSON(w, status, errorResponse{Error: msg})
}
