package domain

import "time"

// RoomType classifies how a room is used.
type RoomType string

const (
	RoomTypeGrow    RoomType = "GROW"
	RoomTypeDrying  RoomType = "DRYING"
	RoomTypeStorage RoomType = "STORAGE"
	RoomTypeOffice  RoomType = "OFFICE"
	RoomTypeOther   RoomType = "OTHER"
)

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeGrow, RoomTypeDrying, RoomTypeStorage, RoomTypeOffice, RoomTypeOther:
		return true
	}
	return false
}

// Room is a physical room; UnifiDeviceID links it to one reader.
type Room struct {
	ID            int64
	Name          string
	Description   string
	Capacity      int
	IsActive      bool
	RoomType      RoomType
	UnifiDeviceID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeviceID returns the linked device id or "".
func (r Room) DeviceID() string {
	if r.UnifiDeviceID == nil {
		return ""
	}
	return *r.UnifiDeviceID
}
