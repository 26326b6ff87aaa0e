package notifications

import (
	"log/slog"
	"net/http"

	"github.com/bracketforge/notify/pkg/subscriptions"
)

type subscriptionHandler struct {
	subs   *subscriptions.Service
	logger *slog.Logger
}

type subscriptionRequest struct {
	RecipientID string                  `json:"recipient_id"`
	TopicType   subscriptions.TopicType `json:"topic_type"`
	TopicID     string                  `json:"topic_id,omitempty"`
	Categories  []string                `json:"categories,omitempty"`
}

func (r subscriptionRequest) topic() subscriptions.Topic {
	return subscriptions.Topic{Type: r.TopicType, ID: r.TopicID}
}

func (h *subscriptionHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sub, err := h.subs.Subscribe(r.Context(), req.RecipientID, req.topic())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

func (h *subscriptionHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.subs.Unsubscribe(r.Context(), req.RecipientID, req.topic()); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *subscriptionHandler) setCategories(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sub, err := h.subs.SetCategories(r.Context(), req.RecipientID, req.topic(), req.Categories)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

func (h *subscriptionHandler) list(w http.ResponseWriter, r *http.Request) {
	recipientID := r.URL.Query().Get("recipient_id")

	subs, err := h.subs.List(r.Context(), recipientID)
	if err != nil {
		respondError(w, err)
		return
	}
	if subs == nil {
		subs = []subscriptions.Subscription{}
	}

	respondJSON(w, http.StatusOK, subs)
}
