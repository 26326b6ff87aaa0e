// Package devicetoken implements the push device token registry.
//
// A device token is one push delivery endpoint for a (recipient, device)
// pair. The registry owns its lifecycle:
//
//   - Register upserts a token, merging re-registrations of the same device
//     and collapsing rows left behind when a token migrates devices;
//   - Disable soft-disables endpoints that the push transport reported as
//     permanently dead (or that the client explicitly logged out);
//   - TokensFor resolves the enabled endpoints for a recipient set during
//     notification fan-out.
//
// Disabled tokens are only re-enabled by an explicit re-registration from the
// owning client; there is no automatic recovery.
//
// # Usage
//
//	registry := devicetoken.NewRegistry(devicetoken.NewPGStorage(pool))
//
//	tok, err := registry.Register(ctx, devicetoken.RegisterParams{
//	    RecipientID: "user-1",
//	    Token:       "ExponentPushToken[xxx]",
//	    Platform:    devicetoken.PlatformIOS,
//	    DeviceID:    "device-a",
//	})
package devicetoken
