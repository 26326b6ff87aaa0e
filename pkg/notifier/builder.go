package notifier

import (
	"context"
	"fmt"
)

// Payload is the rendered user-facing notification content, shared by every
// message of one publish. Data carries the in-app navigation target plus the
// event identity the client needs for routing and grouping.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// builderFunc renders the payload for an event, enriching from the read-only
// directories. Lookup failures abort the publish: a notification with an
// empty title is worse than a late one.
type builderFunc func(ctx context.Context, event Event) (Payload, error)

func (e *Engine) builders() map[string]builderFunc {
	return map[string]builderFunc{
		TournamentCreated{}.Type():    e.buildTournamentCreated,
		TournamentCountdown{}.Type():  e.buildTournamentCountdown,
		MatchStartSoon{}.Type():       e.buildMatchStartSoon,
		MatchResult{}.Type():          e.buildMatchResult,
		RegistrationApproved{}.Type(): e.buildRegistrationApproved,
		ComplaintResolved{}.Type():    buildComplaintResolved,
	}
}

func payloadData(event Event, link string) map[string]string {
	return map[string]string{
		"event_type": event.Type(),
		"link":       link,
	}
}

func (e *Engine) buildTournamentCreated(ctx context.Context, event Event) (Payload, error) {
	ev := event.(TournamentCreated)

	tour, err := e.dirs.Tournaments.Tournament(ctx, ev.TournamentID)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: tournament %s: %w", ErrPayloadBuildFailed, ev.TournamentID, err)
	}

	return Payload{
		Title: fmt.Sprintf("New tournament: %s", tour.Name),
		Body:  fmt.Sprintf("%s starts %s. Registration is open.", tour.Name, tour.StartsAt.Format("Jan 2, 15:04")),
		Data:  payloadData(event, "bracketforge://tournament/"+tour.ID),
	}, nil
}

func (e *Engine) buildTournamentCountdown(ctx context.Context, event Event) (Payload, error) {
	ev := event.(TournamentCountdown)

	tour, err := e.dirs.Tournaments.Tournament(ctx, ev.TournamentID)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: tournament %s: %w", ErrPayloadBuildFailed, ev.TournamentID, err)
	}

	var when string
	switch ev.Phase {
	case PhaseThreeDays:
		when = "in 3 days"
	case PhaseOneDay:
		when = "tomorrow"
	case PhaseOneHour:
		when = "in 1 hour"
	default:
		when = "soon"
	}

	return Payload{
		Title: fmt.Sprintf("%s starts %s", tour.Name, when),
		Body:  fmt.Sprintf("First matches begin %s.", tour.StartsAt.Format("Jan 2, 15:04")),
		Data:  payloadData(event, "bracketforge://tournament/"+tour.ID),
	}, nil
}

func (e *Engine) buildMatchStartSoon(ctx context.Context, event Event) (Payload, error) {
	ev := event.(MatchStartSoon)

	match, tour, err := e.matchWithTournament(ctx, ev.MatchID)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Title: "Match starting soon",
		Body:  fmt.Sprintf("Round %d of %s begins at %s.", match.Round, tour.Name, match.ScheduledAt.Format("15:04")),
		Data:  payloadData(event, "bracketforge://match/"+match.ID),
	}, nil
}

func (e *Engine) buildMatchResult(ctx context.Context, event Event) (Payload, error) {
	ev := event.(MatchResult)

	match, tour, err := e.matchWithTournament(ctx, ev.MatchID)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Title: "Match result is in",
		Body:  fmt.Sprintf("The round %d result for %s has been posted.", match.Round, tour.Name),
		Data:  payloadData(event, "bracketforge://match/"+match.ID),
	}, nil
}

func (e *Engine) buildRegistrationApproved(ctx context.Context, event Event) (Payload, error) {
	ev := event.(RegistrationApproved)

	reg, err := e.dirs.Registrations.Registration(ctx, ev.RegistrationID)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: registration %s: %w", ErrPayloadBuildFailed, ev.RegistrationID, err)
	}
	tour, err := e.dirs.Tournaments.Tournament(ctx, reg.TournamentID)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: tournament %s: %w", ErrPayloadBuildFailed, reg.TournamentID, err)
	}

	return Payload{
		Title: "You're in!",
		Body:  fmt.Sprintf("Your registration for %s was approved.", tour.Name),
		Data:  payloadData(event, "bracketforge://tournament/"+tour.ID),
	}, nil
}

func buildComplaintResolved(_ context.Context, event Event) (Payload, error) {
	ev := event.(ComplaintResolved)

	return Payload{
		Title: "Complaint resolved",
		Body:  "Your complaint has been reviewed and resolved. Tap for details.",
		Data:  payloadData(event, "bracketforge://complaint/"+ev.ComplaintID),
	}, nil
}

func (e *Engine) matchWithTournament(ctx context.Context, matchID string) (Match, Tournament, error) {
	match, err := e.dirs.Matches.Match(ctx, matchID)
	if err != nil {
		return Match{}, Tournament{}, fmt.Errorf("%w: match %s: %w", ErrPayloadBuildFailed, matchID, err)
	}
	tour, err := e.dirs.Tournaments.Tournament(ctx, match.TournamentID)
	if err != nil {
		return Match{}, Tournament{}, fmt.Errorf("%w: tournament %s: %w", ErrPayloadBuildFailed, match.TournamentID, err)
	}
	return match, tour, nil
}
