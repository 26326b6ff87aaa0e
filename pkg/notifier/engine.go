package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bracketforge/notify/pkg/deliverylog"
	"github.com/bracketforge/notify/pkg/devicetoken"
	"github.com/bracketforge/notify/pkg/logger"
	"github.com/bracketforge/notify/pkg/push"
	"github.com/bracketforge/notify/pkg/settings"
	"github.com/bracketforge/notify/pkg/subscriptions"
)

// Gateway is the outbound push transport the engine dispatches through.
// Implemented by push.Client.
type Gateway interface {
	SendBatch(ctx context.Context, messages []push.Message) ([]push.TicketResult, error)
	Receipts(ctx context.Context, ticketIDs []string) (map[string]push.Receipt, error)
}

// Engine is the notification fan-out orchestrator: it resolves an event's
// audience, applies subscription preferences, deduplicates against the
// delivery log, dispatches through the push gateway, and reconciles
// permanent transport failures back into the device token registry.
type Engine struct {
	gateway  Gateway
	tokens   *devicetoken.Registry
	subs     *subscriptions.Service
	log      deliverylog.Storage
	dirs     Directories
	settings *settings.Cache[settings.Settings]
	logger   *slog.Logger

	resolve map[string]resolverFunc
	build   map[string]builderFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger for the Engine.
func WithEngineLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = log
	}
}

// WithSettings wires the runtime kill-switch cache. Without it every event
// type is considered enabled.
func WithSettings(cache *settings.Cache[settings.Settings]) EngineOption {
	return func(e *Engine) {
		e.settings = cache
	}
}

// NewEngine creates the notification engine from its collaborators.
func NewEngine(
	gateway Gateway,
	tokens *devicetoken.Registry,
	subs *subscriptions.Service,
	log deliverylog.Storage,
	dirs Directories,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		gateway: gateway,
		tokens:  tokens,
		subs:    subs,
		log:     log,
		dirs:    dirs,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.resolve = e.resolvers()
	e.build = e.builders()

	return e
}

// PublishOptions carries transport-level hints that do not affect the
// audience or the payload text.
type PublishOptions struct {
	Badge    *int   `json:"badge,omitempty"`
	TTL      int    `json:"ttl,omitempty"`
	Sound    string `json:"sound,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ReceiptRef pairs a gateway ticket id with the token its message went to,
// so a later receipt poll can disable the right token.
type ReceiptRef struct {
	TicketID string `json:"ticket_id"`
	Token    string `json:"token"`
}

// DeliverySummary reports what one Publish call did. Transport-level
// per-token failures never surface as errors; they show up here as counts.
type DeliverySummary struct {
	// Audience is the filtered audience size, after subscription
	// preferences and before deduplication.
	Audience int `json:"audience"`
	// Sent counts recipients a publish attempt was dispatched for.
	Sent int `json:"sent"`
	// Skipped counts recipients dropped as already notified for this key.
	Skipped int `json:"skipped"`
	// Tokens is the number of device tokens messages went out to.
	Tokens int `json:"tokens"`
	// TicketsOK and TicketsFailed are per-status ticket counts.
	TicketsOK     int `json:"tickets_ok"`
	TicketsFailed int `json:"tickets_failed"`
	// DisabledTokens counts tokens disabled for permanent failures during
	// this call, from tickets and from the opportunistic receipt poll.
	DisabledTokens int `json:"disabled_tokens"`
	// PendingReceipts lists tickets whose delivery receipt was not yet
	// available; feed them to CheckReceipts later.
	PendingReceipts []ReceiptRef `json:"pending_receipts,omitempty"`
}

// Publish fans the event out: resolve audience, filter by subscription
// preferences, drop already-notified recipients, render the payload, send,
// reconcile, record. Returns ErrUnsupportedEvent for unregistered event
// types and ErrPayloadBuildFailed when enrichment fails; transport failures
// are absorbed into the summary.
//
// The at-most-once guarantee is per (recipient, event key) and holds under
// sequential triggers. Two racing publishes for the same key can both pass
// the dedup read before either records; the delivery log's unique constraint
// still keeps the ledger single-rowed, the duplicate push is accepted.
func (e *Engine) Publish(ctx context.Context, event Event, opts PublishOptions) (DeliverySummary, error) {
	resolver, ok := e.resolve[event.Type()]
	if !ok {
		return DeliverySummary{}, fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.Type())
	}

	if e.eventDisabled(ctx, event.Type()) {
		e.logger.LogAttrs(ctx, slog.LevelInfo, "publish suppressed by settings",
			logger.EventType(event.Type()),
		)
		return DeliverySummary{}, nil
	}

	implicit, err := resolver(ctx, event)
	if err != nil {
		return DeliverySummary{}, err
	}
	pool := dedupe(append(implicit, event.DirectRecipients()...))

	audience := pool
	if topic := event.Topic(); !topic.IsZero() {
		audience, err = e.subs.Filter(ctx, pool, topic, event.Category())
		if err != nil {
			return DeliverySummary{}, err
		}
	}
	if len(audience) == 0 {
		return DeliverySummary{}, nil
	}

	eventKey := event.Key()

	notified, err := e.log.AlreadyNotified(ctx, audience, eventKey)
	if err != nil {
		return DeliverySummary{}, fmt.Errorf("failed to check delivery log: %w", err)
	}
	remaining := make([]string, 0, len(audience))
	for _, id := range audience {
		if !notified[id] {
			remaining = append(remaining, id)
		}
	}

	summary := DeliverySummary{
		Audience: len(audience),
		Skipped:  len(audience) - len(remaining),
	}
	if len(remaining) == 0 {
		return summary, nil
	}

	payload, err := e.build[event.Type()](ctx, event)
	if err != nil {
		return DeliverySummary{}, err
	}

	tokens, err := e.tokens.TokensFor(ctx, remaining)
	if err != nil {
		return DeliverySummary{}, fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		// Recipients without an active device receive nothing, silently.
		summary.Sent = len(remaining)
		return summary, nil
	}

	messages := make([]push.Message, len(tokens))
	ownerByToken := make(map[string]string, len(tokens))
	for i, t := range tokens {
		messages[i] = push.Message{
			To:       t.Token,
			Title:    payload.Title,
			Body:     payload.Body,
			Data:     payload.Data,
			Badge:    opts.Badge,
			TTL:      opts.TTL,
			Sound:    opts.Sound,
			Priority: opts.Priority,
		}
		ownerByToken[t.Token] = t.RecipientID
	}
	summary.Tokens = len(tokens)

	results, sendErr := e.gateway.SendBatch(ctx, messages)
	if sendErr != nil {
		// Completed chunks still produced tickets; reconcile and record
		// what went out, leave the failed chunks' recipients unrecorded
		// so the next trigger reaches them.
		e.logger.LogAttrs(ctx, slog.LevelWarn, "push send partially failed",
			logger.EventKey(eventKey),
			slog.Int("tickets", len(results)),
			logger.Error(sendErr),
		)
	}

	dispatched := make(map[string]bool, len(remaining))
	var pendingIDs []string
	pendingToken := make(map[string]string)
	for _, res := range results {
		dispatched[ownerByToken[res.Token]] = true

		switch {
		case res.Ticket.PermanentFailure():
			summary.TicketsFailed++
			summary.DisabledTokens += e.disableToken(ctx, res.Token, res.Ticket.Details.Error)
		case res.Ticket.Status == push.StatusError:
			summary.TicketsFailed++
			e.logger.LogAttrs(ctx, slog.LevelWarn, "push ticket error",
				logger.EventKey(eventKey),
				logger.Token(res.Token),
				slog.String("message", res.Ticket.Message),
			)
		default:
			summary.TicketsOK++
			if res.Ticket.ID != "" {
				pendingIDs = append(pendingIDs, res.Ticket.ID)
				pendingToken[res.Ticket.ID] = res.Token
			}
		}
	}

	// Opportunistic receipt poll. Some permanent failures only surface
	// after the gateway accepted the message; catching them now prunes the
	// token one cycle earlier. Best-effort: a failed or lagging poll just
	// leaves the tickets pending for CheckReceipts.
	if len(pendingIDs) > 0 {
		receipts, rErr := e.gateway.Receipts(ctx, pendingIDs)
		if rErr != nil {
			e.logger.LogAttrs(ctx, slog.LevelWarn, "receipt poll failed",
				logger.EventKey(eventKey),
				logger.Error(rErr),
			)
		}
		for _, id := range pendingIDs {
			receipt, ok := receipts[id]
			if !ok {
				summary.PendingReceipts = append(summary.PendingReceipts, ReceiptRef{
					TicketID: id,
					Token:    pendingToken[id],
				})
				continue
			}
			if receipt.PermanentFailure() {
				summary.DisabledTokens += e.disableToken(ctx, pendingToken[id], receipt.Details.Error)
			}
		}
	}

	recorded := make([]string, 0, len(remaining))
	for _, id := range remaining {
		if dispatched[id] {
			recorded = append(recorded, id)
		}
	}
	summary.Sent = len(recorded)

	// Best-effort by design: a ledger write failure must not fail a publish
	// whose pushes already went out. The cost is a possible re-notification
	// on the next trigger for this key.
	if len(recorded) > 0 {
		meta := map[string]string{"event_type": event.Type()}
		if topic := event.Topic(); !topic.IsZero() {
			meta["topic"] = topic.String()
		}
		if err := e.log.Record(ctx, recorded, eventKey, meta); err != nil {
			e.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record delivery log entries",
				logger.EventKey(eventKey),
				slog.Int("recipients", len(recorded)),
				logger.Error(err),
			)
		}
	}

	return summary, nil
}

// CheckReceipts polls delivery receipts for tickets left pending by an
// earlier Publish and disables tokens with permanent failures. Returns the
// refs still pending on the gateway.
func (e *Engine) CheckReceipts(ctx context.Context, refs []ReceiptRef) ([]ReceiptRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.TicketID
	}

	receipts, err := e.gateway.Receipts(ctx, ids)
	if err != nil {
		return nil, err
	}

	var pending []ReceiptRef
	for _, ref := range refs {
		receipt, ok := receipts[ref.TicketID]
		if !ok {
			pending = append(pending, ref)
			continue
		}
		if receipt.PermanentFailure() {
			e.disableToken(ctx, ref.Token, receipt.Details.Error)
		}
	}
	return pending, nil
}

// disableToken soft-disables a token after a permanent transport failure and
// returns 1 on success so callers can count. Disable is idempotent, so a
// token failing on both its ticket and its receipt stays correct.
func (e *Engine) disableToken(ctx context.Context, token, reason string) int {
	if err := e.tokens.Disable(ctx, devicetoken.DisableTarget{Token: token}, reason); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "failed to disable token after permanent failure",
			logger.Token(token),
			logger.Error(err),
		)
		return 0
	}
	e.logger.LogAttrs(ctx, slog.LevelInfo, "disabled token after permanent failure",
		logger.Token(token),
		slog.String("reason", reason),
	)
	return 1
}

// eventDisabled consults the settings cache. A settings source outage never
// blocks delivery: on error the event is treated as enabled.
func (e *Engine) eventDisabled(ctx context.Context, eventType string) bool {
	if e.settings == nil {
		return false
	}
	current, err := e.settings.Current(ctx)
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load notification settings",
			logger.Error(err),
		)
		return false
	}
	return current.EventDisabled(eventType)
}
