package realtime

import "time"

// StatusEvent announces a design status change to interested listeners.
type StatusEvent struct {
	DesignID  string    `json:"design_id"`
	RecordID  string    `json:"record_id"`
	SessionID string    `json:"session_id,omitempty"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}
