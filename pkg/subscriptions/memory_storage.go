package subscriptions

import (
	"context"
	"sync"
)

type subKey struct {
	recipientID string
	topic       Topic
}

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	subs map[subKey]Subscription
	mu   sync.RWMutex
}

// NewMemoryStorage creates a new in-memory subscription storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		subs: make(map[subKey]Subscription),
	}
}

func (s *MemoryStorage) Upsert(ctx context.Context, sub Subscription) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subKey{recipientID: sub.RecipientID, topic: sub.Topic}
	if existing, ok := s.subs[key]; ok {
		// Preserve row identity and creation time across replaces.
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	}
	s.subs[key] = sub
	return sub, nil
}

func (s *MemoryStorage) Get(ctx context.Context, recipientID string, topic Topic) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub, ok := s.subs[subKey{recipientID: recipientID, topic: topic}]; ok {
		out := sub
		return &out, nil
	}
	return nil, ErrSubscriptionNotFound
}

func (s *MemoryStorage) ForRecipients(ctx context.Context, recipientIDs []string, topic Topic) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Subscription
	for _, id := range recipientIDs {
		if sub, ok := s.subs[subKey{recipientID: id, topic: topic}]; ok {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *MemoryStorage) Subscribers(ctx context.Context, topic Topic) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for key, sub := range s.subs {
		if key.topic == topic && !sub.Muted {
			out = append(out, sub.RecipientID)
		}
	}
	return out, nil
}

func (s *MemoryStorage) List(ctx context.Context, recipientID string) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Subscription
	for key, sub := range s.subs {
		if key.recipientID == recipientID {
			out = append(out, sub)
		}
	}
	return out, nil
}
