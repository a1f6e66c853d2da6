package dto

import "time"

// RoomRequest is the create/update payload.
type RoomRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Capacity      int     `json:"capacity"`
	IsActive      *bool   `json:"is_active"`
	RoomType      string  `json:"room_type"`
	UnifiDeviceID *string `json:"unifi_device_id"`
}

// RoomResponse is a room with its reader.
type RoomResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Capacity        int             `json:"capacity"`
	IsActive        bool            `json:"is_active"`
	RoomType        string          `json:"room_type"`
	UnifiDeviceID   *string         `json:"unifi_device_id"`
	UnifiDeviceInfo *DeviceResponse `json:"unifi_device_info"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
