package subscriptions

import (
	"context"
	"errors"
)

// ErrSubscriptionNotFound is returned when no preference row exists for a
// (recipient, topic) pair.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// Storage handles subscription persistence.
type Storage interface {
	// Upsert creates or replaces the preference row keyed by (recipient, topic).
	Upsert(ctx context.Context, sub Subscription) (Subscription, error)

	// Get retrieves the preference row for a (recipient, topic) pair.
	// Returns ErrSubscriptionNotFound if no row exists.
	Get(ctx context.Context, recipientID string, topic Topic) (*Subscription, error)

	// ForRecipients returns the preference rows of the given recipients scoped
	// to one topic. Recipients without a row are simply absent from the result.
	ForRecipients(ctx context.Context, recipientIDs []string, topic Topic) ([]Subscription, error)

	// Subscribers returns the recipient ids holding a non-muted row for the
	// topic, used by audience resolvers to expand topic followers.
	Subscribers(ctx context.Context, topic Topic) ([]string, error)

	// List returns every preference row of a recipient.
	List(ctx context.Context, recipientID string) ([]Subscription, error)
}
