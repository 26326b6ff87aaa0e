// Package notifier implements the notification fan-out engine for the
// tournament platform: typed domain events, audience resolution, subscription
// filtering, delivery-log deduplication, batched push dispatch, and
// reconciliation of permanent transport failures.
//
// # Publishing an event
//
//	engine := notifier.NewEngine(gateway, registry, subs, dlog, dirs)
//
//	summary, err := engine.Publish(ctx, notifier.MatchResult{
//		MatchID:      "m1",
//		TournamentID: "t1",
//	}, notifier.PublishOptions{})
//
// Publish is the sole entry point for HTTP controllers and the external
// scheduler. Triggering the same logical event again is safe: the delivery
// log deduplicates per (recipient, event key), so retries and overlapping
// reminders collapse to at most one push per recipient.
//
// Per-token transport failures never fail a publish. They are classified,
// counted into the returned DeliverySummary, and permanent failures disable
// the token in the device token registry. Tickets whose delivery receipt is
// not yet available come back as PendingReceipts for a later CheckReceipts
// call.
package notifier
