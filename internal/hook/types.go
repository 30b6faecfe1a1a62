// Package hook runs external programs in response to paint events, such as a
// snapshot being written to disk.
package hook

import "time"

// EventSnapshotSaved is sent after a canvas snapshot has been written.
const EventSnapshotSaved = "snapshot.saved"

// Manifest describes a hook's metadata and the events it subscribes to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Handles reports whether the hook subscribes to event. A manifest without
// events subscribes to all of them.
func (m Manifest) Handles(event string) bool {
	if len(m.Events) == 0 {
		return true
	}
	for _, e := range m.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Event is the JSON document written to a hook's stdin.
type Event struct {
	Event      string    `json:"event"`
	SessionID  string    `json:"session_id,omitempty"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	Path       string    `json:"path,omitempty"`
	Tool       string    `json:"tool,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Response is what a hook writes to stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
