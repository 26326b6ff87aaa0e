package notifications

import (
	"log/slog"
	"net/http"

	"github.com/bracketforge/notify/pkg/devicetoken"
	"github.com/bracketforge/notify/pkg/logger"
)

type deviceTokenHandler struct {
	tokens *devicetoken.Registry
	logger *slog.Logger
}

func (h *deviceTokenHandler) register(w http.ResponseWriter, r *http.Request) {
	var params devicetoken.RegisterParams
	if !decodeBody(w, r, &params) {
		return
	}

	stored, err := h.tokens.Register(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, stored)
}

type disableTokenRequest struct {
	RecipientID string `json:"recipient_id,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
	Token       string `json:"token,omitempty"`
}

func (h *deviceTokenHandler) disable(w http.ResponseWriter, r *http.Request) {
	var req disableTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	target := devicetoken.DisableTarget{
		RecipientID: req.RecipientID,
		DeviceID:    req.DeviceID,
		Token:       req.Token,
	}
	if err := h.tokens.Disable(r.Context(), target, "client request"); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type disableAllRequest struct {
	RecipientID string `json:"recipient_id"`
}

func (h *deviceTokenHandler) disableAll(w http.ResponseWriter, r *http.Request) {
	var req disableAllRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.tokens.DisableAll(r.Context(), req.RecipientID); err != nil {
		respondError(w, err)
		return
	}

	h.logger.LogAttrs(r.Context(), slog.LevelInfo, "disabled all device tokens",
		logger.RecipientID(req.RecipientID),
	)
	w.WriteHeader(http.StatusNoContent)
}
