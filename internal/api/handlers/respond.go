package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zatekoja/ayucare/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/ayucare/pkg/errors"
)

// MsgServerError is the body of every unexpected failure
const MsgServerError = "Server error."

// MsgInvalidBody is returned for unparsable JSON bodies
const MsgInvalidBody = "Invalid request body."

type messageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, messageResponse{Message: message})
}

// respondWithAppError maps an error to its status and message. Anything
// that is not a client error is logged and answered with MsgServerError.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeConflict:
			respondWithMessage(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeUnauthorized:
			respondWithMessage(w, http.StatusUnauthorized, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			respondWithMessage(w, http.StatusNotFound, appErr.Message)
			return
		}
	}

	observability.LoggerFromContext(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
	respondWithMessage(w, http.StatusInternalServerError, MsgServerError)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}
