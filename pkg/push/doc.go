// Package push is the client for the external Expo-protocol push gateway.
//
// The gateway uses a two-phase delivery protocol:
//
//  1. a batch send returns one synchronous Ticket per message - an immediate
//     acceptance acknowledgment, not a delivery confirmation;
//  2. delivery Receipts become available later and are fetched by ticket id,
//     because some permanent failures (endpoint unregistered) only surface
//     after the gateway accepted the message.
//
// The client chunks sends to the gateway's maximum batch size and keeps the
// token-to-ticket association across chunk boundaries. Receipts are looked up
// by ticket id, never by position, since response ordering is only defined
// within a single request.
//
// The only failure classification acted on upstream is DeviceNotRegistered
// (see Ticket.PermanentFailure); all other error codes are logged and
// ignored. The client itself never mutates token state - the notifier engine
// owns that reconciliation.
package push
