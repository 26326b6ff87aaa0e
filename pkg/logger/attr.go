package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RecipientID records the recipient identifier under the key "recipient_id".
// If id is nil, it returns an empty Attr.
func RecipientID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("recipient_id", id)
}

// EventType records the notification event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// EventKey records the dedup event key under the key "event_key".
func EventKey(key string) slog.Attr {
	return slog.String("event_key", key)
}

// TicketID records the push transport ticket identifier under the key "ticket_id".
func TicketID(id string) slog.Attr {
	return slog.String("ticket_id", id)
}

// Topic records the subscription topic under the key "topic".
func Topic(topic string) slog.Attr {
	return slog.String("topic", topic)
}

// Token records a device token under the key "token", masked to its last
// characters so delivery endpoints never land in logs verbatim.
func Token(token string) slog.Attr {
	return slog.String("token", maskToken(token))
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func maskToken(token string) string {
	const visible = 6
	if len(token) <= visible {
		return "***"
	}
	return "***" + token[len(token)-visible:]
}
