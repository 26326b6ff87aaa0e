package notifier

import "errors"

var (
	// ErrUnsupportedEvent is returned when no resolver or builder is
	// registered for the event type.
	ErrUnsupportedEvent = errors.New("notifier: unsupported event type")
	// ErrPayloadBuildFailed is returned when a payload builder cannot
	// enrich the notification text, aborting the publish.
	ErrPayloadBuildFailed = errors.New("notifier: failed to build payload")
)
