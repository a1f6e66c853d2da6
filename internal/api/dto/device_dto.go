package dto

// DeviceResponse is a directory device.
type DeviceResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Alias          string `json:"alias"`
	LocationID     string `json:"location_id"`
	ConnectedUAHID string `json:"connected_uah_id"`
}

// DeviceAssignmentResponse names the room holding a device.
type DeviceAssignmentResponse struct {
	RoomID   int64  `json:"room_id"`
	RoomName string `json:"room_name"`
}

// DeviceListItem is a device with its assignment state.
type DeviceListItem struct {
	DeviceResponse
	IsAssigned bool                      `json:"is_assigned"`
	AssignedTo *DeviceAssignmentResponse `json:"assigned_to"`
}

// DeviceListResponse lists devices.
type DeviceListResponse struct {
	Success            bool             `json:"success"`
	Devices            []DeviceListItem `json:"devices"`
	Count              int              `json:"count"`
	DirectoryAvailable bool             `json:"directory_available"`
}

// DeviceStatusResponse is the raw device record plus session state.
type DeviceStatusResponse struct {
	Success          bool           `json:"success"`
	DeviceID         string         `json:"device_id"`
	Device           map[string]any `json:"device"`
	HasActiveSession bool           `json:"has_active_session"`
	SessionID        *string        `json:"session_id"`
}
