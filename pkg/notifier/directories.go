package notifier

import (
	"context"
	"time"
)

// Tournament is the read-only projection of a tournament record the engine
// needs for audience resolution and payload text.
type Tournament struct {
	ID       string
	Name     string
	OrgID    string
	StartsAt time.Time
}

// Match is the read-only projection of a match record.
type Match struct {
	ID           string
	TournamentID string
	Round        int
	HomeID       string
	AwayID       string
	ScheduledAt  time.Time
}

// RegistrationStatus of a tournament registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationRejected  RegistrationStatus = "rejected"
)

// Registration is the read-only projection of a registration record.
type Registration struct {
	ID           string
	TournamentID string
	RecipientID  string
	Status       RegistrationStatus
}

// TournamentDirectory looks up tournament records. Implemented by the
// platform's tournament service; the engine only ever reads.
type TournamentDirectory interface {
	Tournament(ctx context.Context, id string) (Tournament, error)
}

// MatchDirectory looks up match records.
type MatchDirectory interface {
	Match(ctx context.Context, id string) (Match, error)
}

// RegistrationDirectory looks up registration records and the confirmed
// registrants of a tournament.
type RegistrationDirectory interface {
	Registration(ctx context.Context, id string) (Registration, error)
	ConfirmedRegistrants(ctx context.Context, tournamentID string) ([]string, error)
}

// Directories bundles the read-only domain collaborators resolvers and
// builders enrich from.
type Directories struct {
	Tournaments   TournamentDirectory
	Matches       MatchDirectory
	Registrations RegistrationDirectory
}
