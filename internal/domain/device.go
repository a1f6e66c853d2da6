package domain

// Device is a reader or hub registered in the access directory.
type Device struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Alias          string `json:"alias"`
	Type           string `json:"type"`
	LocationID     string `json:"location_id"`
	ConnectedUAHID string `json:"connected_uah_id"`
}

// DeviceAssignment names the room a device id is bound to.
type DeviceAssignment struct {
	RoomID   int64  `json:"room_id"`
	RoomName string `json:"room_name"`
}
