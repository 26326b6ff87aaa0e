package devicetoken

import (
	"time"
)

// Platform identifies the push platform a device token belongs to.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// DeviceToken is one push delivery endpoint for a (recipient, device) pair.
//
// Invariants maintained by the registry:
//   - at most one row per (recipient, device) pair;
//   - a token value that migrates to another device has its stale rows
//     collapsed on re-registration.
//
// Rows are never hard-deleted except to collapse duplicates created by a
// registration race; permanent delivery failures flip Enabled to false instead.
type DeviceToken struct {
	ID           string     `json:"id"`
	RecipientID  string     `json:"recipient_id"`
	Token        string     `json:"-"` // never exposed in JSON responses
	Platform     Platform   `json:"platform"`
	DeviceID     string     `json:"device_id"`
	AppVersion   string     `json:"app_version,omitempty"`
	Enabled      bool       `json:"enabled"`
	LastError    *string    `json:"last_error,omitempty"`
	LastActiveAt time.Time  `json:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
