package notifier_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketforge/notify/pkg/deliverylog"
	"github.com/bracketforge/notify/pkg/devicetoken"
	"github.com/bracketforge/notify/pkg/notifier"
	"github.com/bracketforge/notify/pkg/push"
	"github.com/bracketforge/notify/pkg/settings"
	"github.com/bracketforge/notify/pkg/subscriptions"
)

// stubGateway records sent messages and returns scripted tickets/receipts.
type stubGateway struct {
	sent      [][]push.Message
	tickets   map[string]push.Ticket // keyed by token, default ok
	receipts  map[string]push.Receipt
	sendErr   error
	lost      map[string]bool // tokens in a failed chunk, no ticket produced
	nextID    int
	ticketIDs map[string]string // ticket id -> token
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		tickets:   make(map[string]push.Ticket),
		receipts:  make(map[string]push.Receipt),
		lost:      make(map[string]bool),
		ticketIDs: make(map[string]string),
	}
}

func (g *stubGateway) SendBatch(ctx context.Context, messages []push.Message) ([]push.TicketResult, error) {
	g.sent = append(g.sent, messages)
	if g.sendErr != nil {
		return nil, g.sendErr
	}

	results := make([]push.TicketResult, 0, len(messages))
	partial := false
	for _, msg := range messages {
		if g.lost[msg.To] {
			partial = true
			continue
		}
		ticket, ok := g.tickets[msg.To]
		if !ok {
			g.nextID++
			ticket = push.Ticket{ID: fmt.Sprintf("ticket-%d", g.nextID), Status: push.StatusOK}
		}
		if ticket.ID != "" {
			g.ticketIDs[ticket.ID] = msg.To
		}
		results = append(results, push.TicketResult{Token: msg.To, Ticket: ticket})
	}
	if partial {
		return results, push.ErrPartialSend
	}
	return results, nil
}

func (g *stubGateway) Receipts(ctx context.Context, ticketIDs []string) (map[string]push.Receipt, error) {
	out := make(map[string]push.Receipt, len(ticketIDs))
	for _, id := range ticketIDs {
		if receipt, ok := g.receipts[id]; ok {
			out[id] = receipt
		}
	}
	return out, nil
}

func (g *stubGateway) allMessages() []push.Message {
	var out []push.Message
	for _, batch := range g.sent {
		out = append(out, batch...)
	}
	return out
}

// stubDirectories serves fixed records.
type stubDirectories struct {
	tournaments   map[string]notifier.Tournament
	matches       map[string]notifier.Match
	registrations map[string]notifier.Registration
	registrants   map[string][]string // tournament id -> confirmed recipients
}

func newStubDirectories() *stubDirectories {
	return &stubDirectories{
		tournaments:   make(map[string]notifier.Tournament),
		matches:       make(map[string]notifier.Match),
		registrations: make(map[string]notifier.Registration),
		registrants:   make(map[string][]string),
	}
}

func (d *stubDirectories) Tournament(_ context.Context, id string) (notifier.Tournament, error) {
	t, ok := d.tournaments[id]
	if !ok {
		return notifier.Tournament{}, errors.New("tournament not found")
	}
	return t, nil
}

func (d *stubDirectories) Match(_ context.Context, id string) (notifier.Match, error) {
	m, ok := d.matches[id]
	if !ok {
		return notifier.Match{}, errors.New("match not found")
	}
	return m, nil
}

func (d *stubDirectories) Registration(_ context.Context, id string) (notifier.Registration, error) {
	r, ok := d.registrations[id]
	if !ok {
		return notifier.Registration{}, errors.New("registration not found")
	}
	return r, nil
}

func (d *stubDirectories) ConfirmedRegistrants(_ context.Context, tournamentID string) ([]string, error) {
	return d.registrants[tournamentID], nil
}

type fixture struct {
	engine  *notifier.Engine
	gateway *stubGateway
	tokens  *devicetoken.Registry
	store   *devicetoken.MemoryStorage
	subs    *subscriptions.Service
	dlog    *deliverylog.MemoryStorage
	dirs    *stubDirectories
}

func newFixture(t *testing.T, opts ...notifier.EngineOption) *fixture {
	t.Helper()

	gateway := newStubGateway()
	store := devicetoken.NewMemoryStorage()
	tokens := devicetoken.NewRegistry(store)
	subs := subscriptions.NewService(subscriptions.NewMemoryStorage())
	dlog := deliverylog.NewMemoryStorage()
	dirs := newStubDirectories()

	engine := notifier.NewEngine(gateway, tokens, subs, dlog, notifier.Directories{
		Tournaments:   dirs,
		Matches:       dirs,
		Registrations: dirs,
	}, opts...)

	return &fixture{
		engine:  engine,
		gateway: gateway,
		tokens:  tokens,
		store:   store,
		subs:    subs,
		dlog:    dlog,
		dirs:    dirs,
	}
}

func (f *fixture) registerDevice(t *testing.T, recipientID, token string) {
	t.Helper()
	_, err := f.tokens.Register(context.Background(), devicetoken.RegisterParams{
		RecipientID: recipientID,
		Token:       token,
		Platform:    devicetoken.PlatformIOS,
		DeviceID:    "device-" + token,
	})
	require.NoError(t, err)
}

func (f *fixture) subscribe(t *testing.T, recipientID string, topic subscriptions.Topic) {
	t.Helper()
	_, err := f.subs.Subscribe(context.Background(), recipientID, topic)
	require.NoError(t, err)
}

type unknownEvent struct{}

func (unknownEvent) Type() string { return "mystery.event" }
func (unknownEvent) Key() string { return "mystery.event:1" }
func (unknownEvent) Topic() subscriptions.Topic { return subscriptions.Topic{} }
func (unknownEvent) Category() string { return "" }
func (unknownEvent) DirectRecipients() []string { return nil }

func TestEngine_Publish_UnsupportedEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.engine.Publish(context.Background(), unknownEvent{}, notifier.PublishOptions{})
	assert.ErrorIs(t, err, notifier.ErrUnsupportedEvent)
}

func TestEngine_Publish_EndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{
		ID: "T1", Name: "Spring Open", OrgID: "O1", StartsAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	orgTopic := subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"}
	f.subscribe(t, "u1", orgTopic)
	f.subscribe(t, "u2", orgTopic)
	f.registerDevice(t, "u1", "tok-u1")
	f.registerDevice(t, "u2", "tok-u2")

	summary, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Audience)
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Tokens)
	assert.Equal(t, 2, summary.TicketsOK)

	entries := f.dlog.Entries("tournament.created:tour#T1")
	require.Len(t, entries, 2)

	messages := f.gateway.allMessages()
	require.Len(t, messages, 2)
	for _, msg := range messages {
		assert.Contains(t, msg.Title, "Spring Open")
		assert.Equal(t, "bracketforge://tournament/T1", msg.Data["link"])
	}
}

func TestEngine_Publish_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	orgTopic := subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"}
	f.subscribe(t, "u1", orgTopic)
	f.subscribe(t, "u2", orgTopic)
	f.registerDevice(t, "u1", "tok-u1")
	f.registerDevice(t, "u2", "tok-u2")

	event := notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}

	first, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, first.Sent)

	second, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, first.Audience, second.Skipped)
	assert.Len(t, f.dlog.Entries(event.Key()), 2)
	assert.Len(t, f.gateway.allMessages(), 2)
}

func TestEngine_Publish_AudienceUnionsParticipantsAndSubscribers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.matches["M1"] = notifier.Match{ID: "M1", TournamentID: "T1", Round: 2, HomeID: "A", AwayID: "B"}
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open"}
	f.subscribe(t, "C", subscriptions.Topic{Type: subscriptions.TopicTournament, ID: "T1"})
	for _, id := range []string{"A", "B", "C"} {
		f.registerDevice(t, id, "tok-"+id)
	}

	summary, err := f.engine.Publish(context.Background(),
		notifier.MatchStartSoon{MatchID: "M1", TournamentID: "T1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Audience)
	assert.Equal(t, 3, summary.Sent)
}

func TestEngine_Publish_MutedSubscriberExcluded(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.matches["M1"] = notifier.Match{ID: "M1", TournamentID: "T1", Round: 1, HomeID: "A", AwayID: "B"}
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open"}

	topic := subscriptions.Topic{Type: subscriptions.TopicTournament, ID: "T1"}
	f.subscribe(t, "C", topic)
	_, err := f.subs.Unsubscribe(context.Background(), "C", topic)
	require.NoError(t, err)

	for _, id := range []string{"A", "B", "C"} {
		f.registerDevice(t, id, "tok-"+id)
	}

	summary, err := f.engine.Publish(context.Background(),
		notifier.MatchStartSoon{MatchID: "M1", TournamentID: "T1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	// C's muted row keeps them out of the audience.
	assert.Equal(t, 2, summary.Audience)
	for _, msg := range f.gateway.allMessages() {
		assert.NotEqual(t, "tok-C", msg.To)
	}
}

func TestEngine_Publish_CategoryFiltering(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.matches["M1"] = notifier.Match{ID: "M1", TournamentID: "T1", Round: 1, HomeID: "A", AwayID: "D"}
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open"}

	// D only wants results; the event is a schedule notification.
	topic := subscriptions.Topic{Type: subscriptions.TopicTournament, ID: "T1"}
	_, err := f.subs.SetCategories(context.Background(), "D", topic, []string{"result"})
	require.NoError(t, err)

	f.registerDevice(t, "A", "tok-A")
	f.registerDevice(t, "D", "tok-D")

	summary, err := f.engine.Publish(context.Background(),
		notifier.MatchStartSoon{MatchID: "M1", TournamentID: "T1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	// A has no preference row at all and passes through (default allow).
	assert.Equal(t, 1, summary.Audience)
	messages := f.gateway.allMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "tok-A", messages[0].To)

	// The same recipient gets the result notification.
	result, err := f.engine.Publish(context.Background(),
		notifier.MatchResult{MatchID: "M1", TournamentID: "T1"}, notifier.PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Audience)
}

func TestEngine_Publish_EmptyAudienceShortCircuit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T9"] = notifier.Tournament{ID: "T9", Name: "Ghost Cup", OrgID: "O9"}

	summary, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T9", OrgID: "O9"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, notifier.DeliverySummary{}, summary)
	assert.Empty(t, f.gateway.sent)
	assert.Empty(t, f.dlog.Entries("tournament.created:tour#T9"))
}

func TestEngine_Publish_NoEnabledDevices(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.registrations["R1"] = notifier.Registration{
		ID: "R1", TournamentID: "T1", RecipientID: "u1", Status: notifier.RegistrationConfirmed,
	}
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open"}

	summary, err := f.engine.Publish(context.Background(),
		notifier.RegistrationApproved{RegistrationID: "R1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Audience)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Tokens)
	assert.Empty(t, f.gateway.sent)
}

func TestEngine_Publish_PayloadBuildFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// Subscriber exists but the tournament record does not: enrichment fails.
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")

	_, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "missing", OrgID: "O1"}, notifier.PublishOptions{})
	assert.ErrorIs(t, err, notifier.ErrPayloadBuildFailed)
	assert.Empty(t, f.gateway.sent)
	assert.Empty(t, f.dlog.Entries("tournament.created:tour#missing"))
}

func TestEngine_Publish_PermanentFailureDisablesToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	orgTopic := subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"}
	f.subscribe(t, "u1", orgTopic)
	f.subscribe(t, "u2", orgTopic)
	f.registerDevice(t, "u1", "tok-dead")
	f.registerDevice(t, "u2", "tok-live")

	f.gateway.tickets["tok-dead"] = push.Ticket{
		Status:  push.StatusError,
		Message: "device gone",
		Details: &push.ErrorDetails{Error: push.ErrorDeviceNotRegistered},
	}

	summary, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TicketsOK)
	assert.Equal(t, 1, summary.TicketsFailed)
	assert.Equal(t, 1, summary.DisabledTokens)

	dead, ok := f.store.Get("tok-dead")
	require.True(t, ok)
	assert.False(t, dead.Enabled)

	// The owner of the dead token was still attempted; the dedup row exists
	// and a later publish for the same key does not retry.
	assert.Equal(t, 2, summary.Sent)

	remaining, err := f.tokens.TokensFor(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tok-live", remaining[0].Token)
}

func TestEngine_Publish_ReceiptFailureDisablesToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")

	// Gateway accepts the message but the receipt later reports the device gone.
	f.gateway.tickets["tok-u1"] = push.Ticket{ID: "tick-1", Status: push.StatusOK}
	f.gateway.receipts["tick-1"] = push.Receipt{
		Status:  push.StatusError,
		Details: &push.ErrorDetails{Error: push.ErrorDeviceNotRegistered},
	}

	summary, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DisabledTokens)
	tok, ok := f.store.Get("tok-u1")
	require.True(t, ok)
	assert.False(t, tok.Enabled)
}

func TestEngine_Publish_PendingReceiptsSurface(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")

	f.gateway.tickets["tok-u1"] = push.Ticket{ID: "tick-slow", Status: push.StatusOK}
	// No receipt scripted: the gateway has not produced one yet.

	summary, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}, notifier.PublishOptions{})
	require.NoError(t, err)

	require.Len(t, summary.PendingReceipts, 1)
	assert.Equal(t, "tick-slow", summary.PendingReceipts[0].TicketID)
	assert.Equal(t, "tok-u1", summary.PendingReceipts[0].Token)
}

func TestEngine_Publish_TransportFailureDoesNotRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")

	f.gateway.sendErr = errors.New("gateway down")

	event := notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}
	summary, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)

	// Nobody was dispatched, nobody is marked notified, the next trigger
	// reaches them.
	assert.Equal(t, 0, summary.Sent)
	assert.Empty(t, f.dlog.Entries(event.Key()))

	f.gateway.sendErr = nil
	retry, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Sent)
}

func TestEngine_Publish_PartialSendRecordsCompletedChunks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.subscribe(t, "u2", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")
	f.registerDevice(t, "u2", "tok-u2")

	f.gateway.lost["tok-u2"] = true

	event := notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}
	summary, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Audience)
	assert.Equal(t, 2, summary.Tokens)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.TicketsOK)

	// Only the recipient whose chunk produced a ticket is marked notified.
	entries := f.dlog.Entries(event.Key())
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].RecipientID)

	// The recipient from the failed chunk is reached on the next trigger.
	delete(f.gateway.lost, "tok-u2")
	retry, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Sent)
	assert.Len(t, f.dlog.Entries(event.Key()), 2)
}

func TestEngine_Publish_DirectEventSkipsFiltering(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.registerDevice(t, "u7", "tok-u7")

	// A muted global row must not block a direct complaint notification.
	_, err := f.subs.Unsubscribe(context.Background(), "u7",
		subscriptions.Topic{Type: subscriptions.TopicGlobal})
	require.NoError(t, err)

	summary, err := f.engine.Publish(context.Background(),
		notifier.ComplaintResolved{ComplaintID: "C1", RecipientID: "u7"}, notifier.PublishOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Audience)
	assert.Equal(t, 1, summary.Sent)
	messages := f.gateway.allMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "bracketforge://complaint/C1", messages[0].Data["link"])
}

func TestEngine_Publish_SettingsKillSwitch(t *testing.T) {
	t.Parallel()

	cache := settings.NewCache(settings.Static(settings.Settings{
		DisabledEvents: []string{"tournament.created"},
	}), time.Minute)

	f := newFixture(t, notifier.WithSettings(cache))
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")

	summary, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}, notifier.PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, notifier.DeliverySummary{}, summary)
	assert.Empty(t, f.gateway.sent)

	// Other event types remain unaffected.
	f.dirs.registrations["R1"] = notifier.Registration{
		ID: "R1", TournamentID: "T1", RecipientID: "u1", Status: notifier.RegistrationConfirmed,
	}
	approved, err := f.engine.Publish(context.Background(),
		notifier.RegistrationApproved{RegistrationID: "R1"}, notifier.PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, approved.Sent)
}

func TestEngine_Publish_CountdownAudience(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{
		ID: "T1", Name: "Spring Open", StartsAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	f.dirs.registrants["T1"] = []string{"p1", "p2"}
	f.subscribe(t, "p2", subscriptions.Topic{Type: subscriptions.TopicTournament, ID: "T1"})
	f.subscribe(t, "fan", subscriptions.Topic{Type: subscriptions.TopicTournament, ID: "T1"})
	for _, id := range []string{"p1", "p2", "fan"} {
		f.registerDevice(t, id, "tok-"+id)
	}

	event := notifier.TournamentCountdown{TournamentID: "T1", Phase: notifier.PhaseOneDay}
	summary, err := f.engine.Publish(context.Background(), event, notifier.PublishOptions{})
	require.NoError(t, err)

	// p2 appears both as registrant and subscriber; deduplicated.
	assert.Equal(t, 3, summary.Audience)
	assert.Len(t, f.gateway.allMessages(), 3)

	// A different phase is a distinct logical event with its own key.
	other := notifier.TournamentCountdown{TournamentID: "T1", Phase: notifier.PhaseOneHour}
	assert.NotEqual(t, event.Key(), other.Key())
	again, err := f.engine.Publish(context.Background(), other, notifier.PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, again.Sent)
}

func TestEngine_Publish_OptionsReachTransport(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dirs.tournaments["T1"] = notifier.Tournament{ID: "T1", Name: "Spring Open", OrgID: "O1"}
	f.subscribe(t, "u1", subscriptions.Topic{Type: subscriptions.TopicOrg, ID: "O1"})
	f.registerDevice(t, "u1", "tok-u1")

	badge := 3
	_, err := f.engine.Publish(context.Background(),
		notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"},
		notifier.PublishOptions{Badge: &badge, TTL: 3600})
	require.NoError(t, err)

	messages := f.gateway.allMessages()
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].Badge)
	assert.Equal(t, 3, *messages[0].Badge)
	assert.Equal(t, 3600, messages[0].TTL)
}

func TestEngine_CheckReceipts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.registerDevice(t, "u1", "tok-u1")
	f.registerDevice(t, "u2", "tok-u2")

	f.gateway.receipts["tick-dead"] = push.Receipt{
		Status:  push.StatusError,
		Details: &push.ErrorDetails{Error: push.ErrorDeviceNotRegistered},
	}
	// tick-wait has no receipt yet.

	pending, err := f.engine.CheckReceipts(context.Background(), []notifier.ReceiptRef{
		{TicketID: "tick-dead", Token: "tok-u1"},
		{TicketID: "tick-wait", Token: "tok-u2"},
	})
	require.NoError(t, err)

	require.Len(t, pending, 1)
	assert.Equal(t, "tick-wait", pending[0].TicketID)

	dead, ok := f.store.Get("tok-u1")
	require.True(t, ok)
	assert.False(t, dead.Enabled)

	live, ok := f.store.Get("tok-u2")
	require.True(t, ok)
	assert.True(t, live.Enabled)
}

func TestEngine_CheckReceipts_Empty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pending, err := f.engine.CheckReceipts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEventKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event notifier.Event
		key   string
	}{
		{notifier.TournamentCreated{TournamentID: "T1", OrgID: "O1"}, "tournament.created:tour#T1"},
		{notifier.TournamentCountdown{TournamentID: "T1", Phase: notifier.PhaseThreeDays}, "tournament.countdown:D-3:tour#T1"},
		{notifier.MatchStartSoon{MatchID: "M1", TournamentID: "T1"}, "match.start_soon:match#M1"},
		{notifier.MatchResult{MatchID: "M1", TournamentID: "T1"}, "match.result:match#M1"},
		{notifier.RegistrationApproved{RegistrationID: "R1"}, "registration.approved:reg#R1"},
		{notifier.ComplaintResolved{ComplaintID: "C1", RecipientID: "u1"}, "complaint.resolved:comp#C1"},
	}

	for _, tt := range tests {
		t.Run(tt.event.Type(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.key, tt.event.Key())
		})
	}
}
