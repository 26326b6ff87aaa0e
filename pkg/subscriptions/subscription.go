package subscriptions

import (
	"time"
)

// TopicType scopes subscription preferences to a kind of domain object.
type TopicType string

const (
	TopicTournament TopicType = "tournament"
	TopicMatch      TopicType = "match"
	TopicOrg        TopicType = "org"
	TopicGlobal     TopicType = "global"
)

// Topic is the scoping key recipients express preferences against.
// ID is empty for global topics.
type Topic struct {
	Type TopicType `json:"type"`
	ID   string    `json:"id,omitempty"`
}

// String renders the topic as "type/id" ("type" for global topics), the form
// used in logs and event payload deep links.
func (t Topic) String() string {
	if t.ID == "" {
		return string(t.Type)
	}
	return string(t.Type) + "/" + t.ID
}

// IsZero reports whether the topic carries no scope at all.
func (t Topic) IsZero() bool {
	return t.Type == ""
}

// Subscription is one recipient's preference row for a topic.
//
// At most one row exists per (recipient, topic). Absence of a row means
// "opted in with no category restriction" - the default-allow policy favors
// reach, since audience resolution already constrains candidates to relevant
// participants and subscribers.
type Subscription struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Topic       Topic     `json:"topic"`
	Muted       bool      `json:"muted"`
	Categories  []string  `json:"categories,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Allows reports whether this subscription lets a notification of the given
// category through. Muted rows block everything; a non-empty category list
// only lets listed categories through.
func (s Subscription) Allows(category string) bool {
	if s.Muted {
		return false
	}
	if len(s.Categories) == 0 {
		return true
	}
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}
