package deliverylog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entryKey struct {
	recipientID string
	eventKey    string
}

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	entries map[entryKey]Entry
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory delivery log.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[entryKey]Entry),
	}
}

func (s *MemoryStorage) AlreadyNotified(ctx context.Context, recipientIDs []string, eventKey string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool)
	for _, id := range recipientIDs {
		if _, ok := s.entries[entryKey{recipientID: id, eventKey: eventKey}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (s *MemoryStorage) Record(ctx context.Context, recipientIDs []string, eventKey string, meta map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, id := range recipientIDs {
		key := entryKey{recipientID: id, eventKey: eventKey}
		if _, ok := s.entries[key]; ok {
			// First writer wins; entries are never updated.
			continue
		}
		s.entries[key] = Entry{
			ID:          uuid.New().String(),
			RecipientID: id,
			EventKey:    eventKey,
			Meta:        meta,
			SentAt:      now,
		}
	}
	return nil
}

// Entries returns all stored entries for an event key, for test assertions.
func (s *MemoryStorage) Entries(eventKey string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for key, e := range s.entries {
		if key.eventKey == eventKey {
			out = append(out, e)
		}
	}
	return out
}
