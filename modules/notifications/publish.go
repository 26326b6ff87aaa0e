package notifications

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bracketforge/notify/pkg/logger"
	"github.com/bracketforge/notify/pkg/notifier"
)

type publishHandler struct {
	engine *notifier.Engine
	logger *slog.Logger
}

type publishRequest struct {
	Event   json.RawMessage         `json:"event"`
	Options notifier.PublishOptions `json:"options"`
}

type eventEnvelope struct {
	Type string `json:"type"`
}

// decodeEvent maps the wire discriminator onto the event variants. Unknown
// types fail with ErrUnsupportedEvent before the engine is ever involved.
func decodeEvent(raw json.RawMessage) (notifier.Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	var (
		event notifier.Event
		err   error
	)
	switch env.Type {
	case notifier.TournamentCreated{}.Type():
		var ev notifier.TournamentCreated
		err = json.Unmarshal(raw, &ev)
		event = ev
	case notifier.TournamentCountdown{}.Type():
		var ev notifier.TournamentCountdown
		err = json.Unmarshal(raw, &ev)
		event = ev
	case notifier.MatchStartSoon{}.Type():
		var ev notifier.MatchStartSoon
		err = json.Unmarshal(raw, &ev)
		event = ev
	case notifier.MatchResult{}.Type():
		var ev notifier.MatchResult
		err = json.Unmarshal(raw, &ev)
		event = ev
	case notifier.RegistrationApproved{}.Type():
		var ev notifier.RegistrationApproved
		err = json.Unmarshal(raw, &ev)
		event = ev
	case notifier.ComplaintResolved{}.Type():
		var ev notifier.ComplaintResolved
		err = json.Unmarshal(raw, &ev)
		event = ev
	default:
		return nil, fmt.Errorf("%w: %q", notifier.ErrUnsupportedEvent, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return event, nil
}

func (h *publishHandler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := decodeEvent(req.Event)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	summary, err := h.engine.Publish(r.Context(), event, req.Options)
	if err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "publish failed",
			logger.EventType(event.Type()),
			logger.EventKey(event.Key()),
			logger.Error(err),
		)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
