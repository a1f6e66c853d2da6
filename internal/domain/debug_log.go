package domain

import "time"

// Audit statuses written to the NFC debug log.
const (
	DebugStatusSuccess = "success"
	DebugStatusUnknown = "unbekannt"
	DebugStatusNoCard  = "no_card"
	DebugStatusCancel  = "cancelled"
)

// DebugLogEntry is an append-only record of one badge-flow attempt.
type DebugLogEntry struct {
	ID        int64
	Token     string
	Status    string
	DeviceID  *string
	Payload   map[string]any
	Timestamp time.Time
}
