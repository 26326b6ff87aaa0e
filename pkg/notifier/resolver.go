package notifier

import (
	"context"
	"fmt"

	"github.com/bracketforge/notify/pkg/subscriptions"
)

// resolverFunc computes the implicit audience of an event: the recipients the
// domain says should hear about it, before subscription filtering and before
// merging in the event's direct recipients.
type resolverFunc func(ctx context.Context, event Event) ([]string, error)

func (e *Engine) resolvers() map[string]resolverFunc {
	return map[string]resolverFunc{
		TournamentCreated{}.Type():    e.resolveTournamentCreated,
		TournamentCountdown{}.Type():  e.resolveTournamentCountdown,
		MatchStartSoon{}.Type():       e.resolveMatchParticipants,
		MatchResult{}.Type():          e.resolveMatchParticipants,
		RegistrationApproved{}.Type(): e.resolveRegistrationApproved,
		ComplaintResolved{}.Type():    resolveNone,
	}
}

// resolveNone is for events addressed purely through DirectRecipients.
func resolveNone(context.Context, Event) ([]string, error) {
	return nil, nil
}

func (e *Engine) resolveTournamentCreated(ctx context.Context, event Event) ([]string, error) {
	ev := event.(TournamentCreated)
	return e.subs.Subscribers(ctx, subscriptions.Topic{Type: subscriptions.TopicOrg, ID: ev.OrgID})
}

func (e *Engine) resolveTournamentCountdown(ctx context.Context, event Event) ([]string, error) {
	ev := event.(TournamentCountdown)

	registrants, err := e.dirs.Registrations.ConfirmedRegistrants(ctx, ev.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve confirmed registrants: %w", err)
	}

	followers, err := e.subs.Subscribers(ctx, event.Topic())
	if err != nil {
		return nil, err
	}

	return append(registrants, followers...), nil
}

// resolveMatchParticipants serves both match events: the two participants
// plus the parent tournament's followers.
func (e *Engine) resolveMatchParticipants(ctx context.Context, event Event) ([]string, error) {
	var matchID string
	switch ev := event.(type) {
	case MatchStartSoon:
		matchID = ev.MatchID
	case MatchResult:
		matchID = ev.MatchID
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.Type())
	}

	match, err := e.dirs.Matches.Match(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve match %s: %w", matchID, err)
	}

	followers, err := e.subs.Subscribers(ctx, event.Topic())
	if err != nil {
		return nil, err
	}

	audience := make([]string, 0, 2+len(followers))
	if match.HomeID != "" {
		audience = append(audience, match.HomeID)
	}
	if match.AwayID != "" {
		audience = append(audience, match.AwayID)
	}
	return append(audience, followers...), nil
}

func (e *Engine) resolveRegistrationApproved(ctx context.Context, event Event) ([]string, error) {
	ev := event.(RegistrationApproved)

	reg, err := e.dirs.Registrations.Registration(ctx, ev.RegistrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve registration %s: %w", ev.RegistrationID, err)
	}
	return []string{reg.RecipientID}, nil
}

// dedupe drops repeated recipient ids, keeping first-seen order. Overlapping
// audience sources (a participant who also follows the tournament) must not
// produce two messages.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
