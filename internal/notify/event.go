package notify

import "time"

// Kind names the change an event describes.
type Kind string

const (
	KindRequestSubmitted   Kind = "request.submitted"
	KindRequestUpdated     Kind = "request.updated"
	KindRequestsCleared    Kind = "requests.cleared"
	KindPreferencesUpdated Kind = "preferences.updated"
	// KindStoreChanged is published when another process wrote a shared key.
	KindStoreChanged Kind = "store.changed"
)

// Event is a single change notification. Observers re-read state on receipt;
// the payload only identifies what moved.
type Event struct {
	Sequence  uint64    `json:"seq"`
	Timestamp time.Time `json:"ts"`
	Kind      Kind      `json:"kind"`
	Key       string    `json:"key,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Status    string    `json:"status,omitempty"`
}
