// Package subscriptions stores per-recipient notification preferences scoped
// to topics (a tournament, a match, an organization, or the global feed) and
// applies them as the audience filter during fan-out.
//
// A recipient without a preference row for a topic is opted in with no
// category restriction: the default-allow policy deliberately favors reach,
// because audience resolution already limits candidates to participants and
// subscribers of the event's domain objects. Muting keeps the row so category
// preferences survive a later re-subscribe.
//
// # Usage
//
//	svc := subscriptions.NewService(subscriptions.NewPGStorage(pool))
//
//	topic := subscriptions.Topic{Type: subscriptions.TopicTournament, ID: "t1"}
//	_, err := svc.Subscribe(ctx, "user-1", topic)
//
//	// During fan-out: drop muted and category-restricted candidates.
//	audience, err := svc.Filter(ctx, candidates, topic, "schedule")
package subscriptions
