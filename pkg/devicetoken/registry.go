package devicetoken

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bracketforge/notify/pkg/logger"
)

// Registry is the device token registry: it owns the lifecycle of push
// delivery endpoints (register/merge, soft-disable, disable-all).
type Registry struct {
	storage Storage
	logger  *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger for the Registry.
func WithRegistryLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = log
	}
}

// NewRegistry creates a device token registry on top of the given storage.
func NewRegistry(storage Storage, opts ...RegistryOption) *Registry {
	r := &Registry{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterParams carries a device registration request.
type RegisterParams struct {
	RecipientID string   `json:"recipient_id"`
	Token       string   `json:"token"`
	Platform    Platform `json:"platform"`
	DeviceID    string   `json:"device_id"`
	AppVersion  string   `json:"app_version,omitempty"`
}

// Validate checks the registration request for required fields.
func (p RegisterParams) Validate() error {
	if p.RecipientID == "" {
		return ErrRecipientRequired
	}
	if p.Token == "" {
		return ErrTokenRequired
	}
	if p.DeviceID == "" {
		return ErrDeviceIDRequired
	}
	return nil
}

// Register upserts a device token for the recipient. Re-registering an
// existing device refreshes the token value, re-enables the row, and clears
// any previous delivery error. A token that appears on a new device has its
// old rows collapsed so a single endpoint never fans out twice.
func (r *Registry) Register(ctx context.Context, params RegisterParams) (DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return DeviceToken{}, err
	}

	now := time.Now()
	token := DeviceToken{
		ID:           uuid.New().String(),
		RecipientID:  params.RecipientID,
		Token:        params.Token,
		Platform:     params.Platform,
		DeviceID:     params.DeviceID,
		AppVersion:   params.AppVersion,
		Enabled:      true,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stored, err := r.storage.Upsert(ctx, token)
	if err != nil {
		return DeviceToken{}, err
	}

	r.logger.LogAttrs(ctx, slog.LevelDebug, "device token registered",
		logger.RecipientID(stored.RecipientID),
		logger.Token(stored.Token),
		slog.String("platform", string(stored.Platform)),
	)

	return stored, nil
}

// Disable soft-disables a token selected by recipient+device or by token
// value, recording the reason. Idempotent: disabling a token that is already
// disabled (or unknown) succeeds silently.
func (r *Registry) Disable(ctx context.Context, target DisableTarget, reason string) error {
	if target.Token == "" && target.RecipientID == "" {
		return ErrInvalidDisableTarget
	}
	return r.storage.Disable(ctx, target, reason)
}

// DisableAll disables every token of the recipient, used on full logout.
func (r *Registry) DisableAll(ctx context.Context, recipientID string) error {
	if recipientID == "" {
		return ErrInvalidDisableTarget
	}
	return r.storage.Disable(ctx, DisableTarget{RecipientID: recipientID}, "logout")
}

// TokensFor returns the enabled tokens for the given recipients. Recipients
// with no enabled device simply contribute nothing; that is not an error.
func (r *Registry) TokensFor(ctx context.Context, recipientIDs []string) ([]DeviceToken, error) {
	if len(recipientIDs) == 0 {
		return nil, nil
	}
	return r.storage.EnabledTokens(ctx, recipientIDs)
}
