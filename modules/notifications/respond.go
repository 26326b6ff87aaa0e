package notifications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bracketforge/notify/pkg/devicetoken"
	"github.com/bracketforge/notify/pkg/notifier"
	"github.com/bracketforge/notify/pkg/subscriptions"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps service errors onto HTTP statuses: validation failures
// and unknown event types are the caller's fault, everything else is a 500
// with the detail kept out of the response body.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, notifier.ErrUnsupportedEvent):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, devicetoken.ErrRecipientRequired) ||
		errors.Is(err, devicetoken.ErrTokenRequired) ||
		errors.Is(err, devicetoken.ErrDeviceIDRequired) ||
		errors.Is(err, devicetoken.ErrInvalidDisableTarget) ||
		errors.Is(err, subscriptions.ErrRecipientRequired) ||
		errors.Is(err, subscriptions.ErrTopicRequired)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
