package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBadgeRead        EventType = "badge_read"
	EventBindConfirmed    EventType = "bind_confirmed"
	EventBindRejected     EventType = "bind_rejected"
	EventSessionCancelled EventType = "session_cancelled"
	EventBulkAssignRow    EventType = "bulk_assign_row"
)

// AllEventTypes lists every type the badge flow emits.
var AllEventTypes = []EventType{
	EventBadgeRead,
	EventBindConfirmed,
	EventBindRejected,
	EventSessionCancelled,
	EventBulkAssignRow,
}

// Actor is the operator that triggered the event, when known.
type Actor struct {
	OperatorID *string `json:"operator_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	DeviceID  string      `json:"device_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BadgeAttemptPayload describes one attempt of the badge flow. Status is
// one of the debug log statuses or an error code.
type BadgeAttemptPayload struct {
	Token   string         `json:"token"`
	Status  string         `json:"status"`
	Context map[string]any `json:"context,omitempty"`
}
