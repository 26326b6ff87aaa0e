package devicetoken

import (
	"context"
)

// DisableTarget selects tokens to disable by recipient+device or by raw token
// value. Exactly one selector form must be provided: Token alone, or
// RecipientID with optional DeviceID (empty DeviceID targets every device of
// the recipient).
type DisableTarget struct {
	RecipientID string
	DeviceID    string
	Token       string
}

// Storage handles device token persistence.
//
// All write operations are expressed as upserts or idempotent updates so
// concurrent registrations and failure reconciliation never need cross-request
// locking.
type Storage interface {
	// Upsert inserts or refreshes a token row keyed by (recipient, device),
	// then collapses any other row carrying the same token value. The stored
	// row always comes back enabled with its last error cleared.
	Upsert(ctx context.Context, token DeviceToken) (DeviceToken, error)

	// Disable marks matching rows as disabled and records the reason.
	// Disabling an already-disabled token is a no-op, not an error.
	Disable(ctx context.Context, target DisableTarget, reason string) error

	// EnabledTokens returns enabled tokens for the given recipients.
	EnabledTokens(ctx context.Context, recipientIDs []string) ([]DeviceToken, error)
}
