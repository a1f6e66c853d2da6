package domain

import "time"

// SessionState is the lifecycle of a badge-binding session per cache key.
type SessionState string

const (
	SessionIdle                 SessionState = "IDLE"
	SessionAwaitingConfirmation SessionState = "AWAITING_CONFIRMATION"
	SessionBound                SessionState = "BOUND"
	SessionCancelled            SessionState = "CANCELLED"
)

// PendingSession bridges the read step and the confirm step of a badge bind.
type PendingSession struct {
	DeviceID         string    `json:"device_id,omitempty"`
	Token            string    `json:"token"`
	ExternalUserID   string    `json:"external_user_id"`
	ExternalFullName string    `json:"external_full_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// DirectoryUser is a user record of the access directory.
type DirectoryUser struct {
	ID       string
	FullName string
}
