package domain

import "time"

type EventKind string

const (
	EventAlert    EventKind = "ALERT"
	EventRecovery EventKind = "RECOVERY"
)

// Event is emitted when a target crosses a threshold. Consumed exactly once
// by the dispatcher.
type Event struct {
	Kind      EventKind `json:"kind"`
	Target    Target    `json:"target"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Title is a one-line summary used by channels with a subject line.
func (e Event) Title() string {
	if e.Kind == EventRecovery {
		return "🟢 " + e.Target.Key() + " RECOVERED"
	}
	return "🔴 " + e.Target.Key() + " DOWN"
}
