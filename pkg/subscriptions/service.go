package subscriptions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRecipientRequired is returned when a preference write omits the recipient.
	ErrRecipientRequired = errors.New("subscriptions: recipient id is required")
	// ErrTopicRequired is returned when a preference write omits the topic type.
	ErrTopicRequired = errors.New("subscriptions: topic type is required")
)

// Service manages recipient subscription preferences and applies them as the
// audience filter during fan-out.
type Service struct {
	storage Storage
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger for the Service.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = log
	}
}

// NewService creates a subscription service on top of the given storage.
func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe opts the recipient into a topic, unmuting an existing row and
// preserving its category preferences.
func (s *Service) Subscribe(ctx context.Context, recipientID string, topic Topic) (Subscription, error) {
	return s.write(ctx, recipientID, topic, func(sub *Subscription) {
		sub.Muted = false
	})
}

// Unsubscribe mutes the recipient's row for a topic. The row is kept (not
// deleted) so category preferences survive a later re-subscribe.
func (s *Service) Unsubscribe(ctx context.Context, recipientID string, topic Topic) (Subscription, error) {
	return s.write(ctx, recipientID, topic, func(sub *Subscription) {
		sub.Muted = true
	})
}

// SetCategories restricts the recipient's row to the given notification
// categories. An empty list removes the restriction.
func (s *Service) SetCategories(ctx context.Context, recipientID string, topic Topic, categories []string) (Subscription, error) {
	return s.write(ctx, recipientID, topic, func(sub *Subscription) {
		sub.Categories = categories
	})
}

// List returns all preference rows of a recipient.
func (s *Service) List(ctx context.Context, recipientID string) ([]Subscription, error) {
	if recipientID == "" {
		return nil, ErrRecipientRequired
	}
	return s.storage.List(ctx, recipientID)
}

// Subscribers returns the non-muted subscribers of a topic.
func (s *Service) Subscribers(ctx context.Context, topic Topic) ([]string, error) {
	if topic.IsZero() {
		return nil, ErrTopicRequired
	}
	return s.storage.Subscribers(ctx, topic)
}

// Filter drops candidates whose preference row for the topic mutes the topic
// or excludes the event's category. Candidates without a row pass through
// (default allow). Input order is preserved.
func (s *Service) Filter(ctx context.Context, recipientIDs []string, topic Topic, category string) ([]string, error) {
	if len(recipientIDs) == 0 || topic.IsZero() {
		return recipientIDs, nil
	}

	rows, err := s.storage.ForRecipients(ctx, recipientIDs, topic)
	if err != nil {
		return nil, err
	}

	byRecipient := make(map[string]Subscription, len(rows))
	for _, row := range rows {
		byRecipient[row.RecipientID] = row
	}

	out := make([]string, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		row, ok := byRecipient[id]
		if !ok || row.Allows(category) {
			out = append(out, id)
		}
	}
	return out, nil
}

// write loads-or-initializes the (recipient, topic) row, applies the mutation,
// and upserts it. The storage upsert keyed by (recipient, topic) makes
// concurrent writes last-write-wins rather than erroring.
func (s *Service) write(ctx context.Context, recipientID string, topic Topic, mutate func(*Subscription)) (Subscription, error) {
	if recipientID == "" {
		return Subscription{}, ErrRecipientRequired
	}
	if topic.IsZero() {
		return Subscription{}, ErrTopicRequired
	}

	now := time.Now()
	sub := Subscription{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Topic:       topic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if existing, err := s.storage.Get(ctx, recipientID, topic); err == nil {
		sub = *existing
		sub.UpdatedAt = now
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return Subscription{}, err
	}

	mutate(&sub)

	return s.storage.Upsert(ctx, sub)
}
