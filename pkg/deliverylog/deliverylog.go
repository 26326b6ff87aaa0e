package deliverylog

import (
	"context"
	"time"
)

// Entry is one row of the append-only idempotency ledger: the fact that a
// publish attempt was dispatched to a recipient for a logical event.
//
// Entries are unique per (recipient, event key), written once, and never
// updated. They record dispatch, not confirmed delivery: the guarantee the
// ledger backs is at-most-one publish attempt per (recipient, event key).
type Entry struct {
	ID          string            `json:"id"`
	RecipientID string            `json:"recipient_id"`
	EventKey    string            `json:"event_key"`
	Meta        map[string]string `json:"meta,omitempty"`
	SentAt      time.Time         `json:"sent_at"`
}

// Storage is the persistence interface of the ledger.
type Storage interface {
	// AlreadyNotified returns the subset of recipients that already hold an
	// entry for the event key.
	AlreadyNotified(ctx context.Context, recipientIDs []string, eventKey string) (map[string]bool, error)

	// Record appends entries for the recipients. Duplicate-key conflicts are
	// swallowed silently: under concurrent publishes for the same key the
	// first writer wins and later writers are treated as already-recorded.
	Record(ctx context.Context, recipientIDs []string, eventKey string, meta map[string]string) error
}
