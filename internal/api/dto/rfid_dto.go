package dto

import "time"

// DeviceScopedRequest carries the optional reader id of POST endpoints.
type DeviceScopedRequest struct {
	DeviceID string `json:"device_id"`
}

// ConfirmBindingRequest payload.
type ConfirmBindingRequest struct {
	Token     string `json:"token"`
	UnifiName string `json:"unifi_name"`
	DeviceID  string `json:"device_id"`
}

// ReadSessionResponse is the debug read result.
type ReadSessionResponse struct {
	Success            bool    `json:"success"`
	Message            string  `json:"message,omitempty"`
	Token              string  `json:"token,omitempty"`
	UnifiID            *string `json:"unifi_id"`
	UnifiName          *string `json:"unifi_name"`
	MemberName         string  `json:"member_name,omitempty"`
	DeviceID           *string `json:"device_id"`
	DirectoryAvailable bool    `json:"directory_available"`
}

// BindSessionResponse is returned once a card was resolved to a directory user.
type BindSessionResponse struct {
	Token       string  `json:"token"`
	UnifiUserID string  `json:"unifi_user_id"`
	UnifiName   string  `json:"unifi_name"`
	Message     string  `json:"message"`
	DeviceID    *string `json:"device_id"`
}

// ConfirmBindingResponse identifies the bound member.
type ConfirmBindingResponse struct {
	Success    bool      `json:"success"`
	MemberID   int64     `json:"member_id"`
	MemberName string    `json:"member_name"`
	Timestamp  time.Time `json:"timestamp"`
	DeviceID   *string   `json:"device_id"`
}

// CancelSessionResponse reports a cancelled session.
type CancelSessionResponse struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
	DeviceID        *string `json:"device_id"`
	RemoteSessionID *string `json:"remote_session_id"`
}

// DebugLogResponse is one audit entry.
type DebugLogResponse struct {
	ID        int64          `json:"id"`
	Token     string         `json:"token"`
	Status    string         `json:"status"`
	DeviceID  *string        `json:"device_id"`
	RawData   map[string]any `json:"raw_data"`
	Timestamp time.Time      `json:"timestamp"`
}

// SessionHistoryResponse lists recent audit entries.
type SessionHistoryResponse struct {
	Success  bool               `json:"success"`
	Count    int                `json:"count"`
	DeviceID *string            `json:"device_id"`
	History  []DebugLogResponse `json:"history"`
}

// BulkAssignRequest payload.
type BulkAssignRequest struct {
	Assignments []BulkAssignItem `json:"assignments"`
}

// BulkAssignItem is one requested pairing.
type BulkAssignItem struct {
	Token    string `json:"token"`
	MemberID int64  `json:"member_id"`
}

// BulkAssignRow is one validated or rejected pairing.
type BulkAssignRow struct {
	Token      string `json:"token"`
	MemberID   int64  `json:"member_id,omitempty"`
	MemberName string `json:"member_name,omitempty"`
	Success    bool   `json:"success,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BulkAssignResponse summarises a bulk assignment.
type BulkAssignResponse struct {
	Success    bool            `json:"success"`
	Results    []BulkAssignRow `json:"results"`
	Errors     []BulkAssignRow `json:"errors"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
}
