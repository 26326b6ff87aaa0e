package notifier

import (
	"github.com/bracketforge/notify/pkg/subscriptions"
)

// Notification categories recipients can restrict their subscriptions to.
const (
	CategoryNews     = "news"
	CategorySchedule = "schedule"
	CategoryResult   = "result"
)

// CountdownPhase identifies which pre-start reminder a countdown event is.
type CountdownPhase string

const (
	PhaseThreeDays CountdownPhase = "D-3"
	PhaseOneDay    CountdownPhase = "D-1"
	PhaseOneHour   CountdownPhase = "H-1"
)

// Event is one notification-worthy domain occurrence. Each variant carries
// exactly the identifying fields its audience resolver and payload builder
// need.
//
// Key must be deterministic over identifying fields only (never timestamps):
// repeated triggers for the same logical occurrence collide on the same key,
// which is what makes delivery-log deduplication work.
type Event interface {
	// Type names the event kind, e.g. "tournament.created". Resolver and
	// builder lookup is keyed by this value.
	Type() string
	// Key is the deterministic dedup key for this specific occurrence.
	Key() string
	// Topic is the subscription scope the audience is filtered against.
	// A zero topic skips subscription filtering (direct notifications).
	Topic() subscriptions.Topic
	// Category classifies the notification for category-restricted
	// subscriptions. Empty for direct notifications.
	Category() string
	// DirectRecipients lists recipients addressed explicitly, merged into
	// the resolved audience before filtering.
	DirectRecipients() []string
}

// TournamentCreated announces a newly published tournament to the followers
// of its organizer.
type TournamentCreated struct {
	TournamentID string `json:"tournament_id"`
	OrgID        string `json:"org_id"`
}

func (e TournamentCreated) Type() string { return "tournament.created" }
func (e TournamentCreated) Key() string { return "tournament.created:tour#" + e.TournamentID }
func (e TournamentCreated) Topic() subscriptions.Topic {
	return subscriptions.Topic{Type: subscriptions.TopicOrg, ID: e.OrgID}
}
func (e TournamentCreated) Category() string { return CategoryNews }
func (e TournamentCreated) DirectRecipients() []string { return nil }

// TournamentCountdown reminds registrants and followers that a tournament
// starts soon. The phase is part of the key, so each reminder fires at most
// once per recipient while distinct phases stay independent.
type TournamentCountdown struct {
	TournamentID string         `json:"tournament_id"`
	Phase        CountdownPhase `json:"phase"`
}

func (e TournamentCountdown) Type() string { return "tournament.countdown" }
func (e TournamentCountdown) Key() string {
	return "tournament.countdown:" + string(e.Phase) + ":tour#" + e.TournamentID
}
func (e TournamentCountdown) Topic() subscriptions.Topic {
	return subscriptions.Topic{Type: subscriptions.TopicTournament, ID: e.TournamentID}
}
func (e TournamentCountdown) Category() string { return CategorySchedule }
func (e TournamentCountdown) DirectRecipients() []string { return nil }

// MatchStartSoon warns a match's participants and the parent tournament's
// followers shortly before the scheduled start.
type MatchStartSoon struct {
	MatchID      string `json:"match_id"`
	TournamentID string `json:"tournament_id"`
}

func (e MatchStartSoon) Type() string { return "match.start_soon" }
func (e MatchStartSoon) Key() string { return "match.start_soon:match#" + e.MatchID }
func (e MatchStartSoon) Topic() subscriptions.Topic {
	return subscriptions.Topic{Type: subscriptions.TopicTournament, ID: e.TournamentID}
}
func (e MatchStartSoon) Category() string { return CategorySchedule }
func (e MatchStartSoon) DirectRecipients() []string { return nil }

// MatchResult announces a finished match to its participants and the parent
// tournament's followers.
type MatchResult struct {
	MatchID      string `json:"match_id"`
	TournamentID string `json:"tournament_id"`
}

func (e MatchResult) Type() string { return "match.result" }
func (e MatchResult) Key() string { return "match.result:match#" + e.MatchID }
func (e MatchResult) Topic() subscriptions.Topic {
	return subscriptions.Topic{Type: subscriptions.TopicTournament, ID: e.TournamentID}
}
func (e MatchResult) Category() string { return CategoryResult }
func (e MatchResult) DirectRecipients() []string { return nil }

// RegistrationApproved tells a registrant their tournament registration went
// through. Direct: no topic, no subscription filtering.
type RegistrationApproved struct {
	RegistrationID string `json:"registration_id"`
}

func (e RegistrationApproved) Type() string { return "registration.approved" }
func (e RegistrationApproved) Key() string {
	return "registration.approved:reg#" + e.RegistrationID
}
func (e RegistrationApproved) Topic() subscriptions.Topic { return subscriptions.Topic{} }
func (e RegistrationApproved) Category() string { return "" }
func (e RegistrationApproved) DirectRecipients() []string { return nil }

// ComplaintResolved tells the complainant their dispute was handled. Direct:
// the recipient is carried on the event itself.
type ComplaintResolved struct {
	ComplaintID string `json:"complaint_id"`
	RecipientID string `json:"recipient_id"`
}

func (e ComplaintResolved) Type() string { return "complaint.resolved" }
func (e ComplaintResolved) Key() string { return "complaint.resolved:comp#" + e.ComplaintID }
func (e ComplaintResolved) Topic() subscriptions.Topic { return subscriptions.Topic{} }
func (e ComplaintResolved) Category() string { return "" }
func (e ComplaintResolved) DirectRecipients() []string {
	if e.RecipientID == "" {
		return nil
	}
	return []string{e.RecipientID}
}
