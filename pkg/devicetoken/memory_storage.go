package devicetoken

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	tokens map[string]DeviceToken // id -> token
	mu     sync.RWMutex
}

// NewMemoryStorage creates a new in-memory device token storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tokens: make(map[string]DeviceToken),
	}
}

func (s *MemoryStorage) Upsert(ctx context.Context, token DeviceToken) (DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A re-registration of the same device keeps the original row identity.
	existingID := ""
	for id, t := range s.tokens {
		if t.RecipientID == token.RecipientID && t.DeviceID == token.DeviceID {
			existingID = id
			break
		}
	}

	if existingID != "" {
		existing := s.tokens[existingID]
		existing.Token = token.Token
		existing.Platform = token.Platform
		existing.AppVersion = token.AppVersion
		existing.Enabled = true
		existing.LastError = nil
		existing.LastActiveAt = token.LastActiveAt
		existing.UpdatedAt = time.Now()
		s.tokens[existingID] = existing
		token = existing
	} else {
		s.tokens[token.ID] = token
	}

	// Collapse any other row carrying the same token value: the endpoint has
	// migrated devices, the stale rows must not fan out.
	for id, t := range s.tokens {
		if id != token.ID && t.Token == token.Token {
			delete(s.tokens, id)
		}
	}

	return token, nil
}

func (s *MemoryStorage) Disable(ctx context.Context, target DisableTarget, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tokens {
		if !matches(t, target) {
			continue
		}
		if !t.Enabled {
			continue
		}
		t.Enabled = false
		r := reason
		t.LastError = &r
		t.UpdatedAt = time.Now()
		s.tokens[id] = t
	}
	return nil
}

func (s *MemoryStorage) EnabledTokens(ctx context.Context, recipientIDs []string) ([]DeviceToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(recipientIDs))
	for _, id := range recipientIDs {
		wanted[id] = true
	}

	var out []DeviceToken
	for _, t := range s.tokens {
		if t.Enabled && wanted[t.RecipientID] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Get returns a stored token by raw token value, for test assertions.
func (s *MemoryStorage) Get(token string) (DeviceToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tokens {
		if t.Token == token {
			return t, true
		}
	}
	return DeviceToken{}, false
}

func matches(t DeviceToken, target DisableTarget) bool {
	if target.Token != "" {
		return t.Token == target.Token
	}
	if t.RecipientID != target.RecipientID {
		return false
	}
	return target.DeviceID == "" || t.DeviceID == target.DeviceID
}
