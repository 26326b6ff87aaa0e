package settings

// Settings carries the runtime switches the notification engine consults
// before fanning out an event.
type Settings struct {
	// MuteAll drops every publish while set, the operational kill switch.
	MuteAll bool `json:"mute_all,omitempty"`
	// DisabledEvents lists event types that must not fan out.
	DisabledEvents []string `json:"disabled_events,omitempty"`
}

// EventDisabled reports whether publishing is switched off for the event type.
func (s Settings) EventDisabled(eventType string) bool {
	if s.MuteAll {
		return true
	}
	for _, e := range s.DisabledEvents {
		if e == eventType {
			return true
		}
	}
	return false
}
