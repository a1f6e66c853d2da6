package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-access-service/internal/api/dto"
	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/service"
)

// DeviceHandler exposes the directory's readers.
type DeviceHandler struct {
	devices *service.DeviceService
}

// NewDeviceHandler constructs handler.
func NewDeviceHandler(devices *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// List handles GET /api/unifi/devices.
func (h *DeviceHandler) List(c *fiber.Ctx) error {
	listing, err := h.devices.ListWithAssignments(requestContext(c))
	if err != nil {
		return err
	}

	items := make([]dto.DeviceListItem, 0, len(listing.Devices))
	for _, device := range listing.Devices {
		item := dto.DeviceListItem{
			DeviceResponse: deviceResponse(device.Device),
			IsAssigned:     device.IsAssigned,
		}
		if device.AssignedTo != nil {
			item.AssignedTo = &dto.DeviceAssignmentResponse{
				RoomID:   device.AssignedTo.RoomID,
				RoomName: device.AssignedTo.RoomName,
			}
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{"data": dto.DeviceListResponse{
		Success:            true,
		Devices:            items,
		Count:              len(items),
		DirectoryAvailable: listing.DirectoryAvailable,
	}})
}

// Status handles GET /api/unifi/devices/:device_id/status.
func (h *DeviceHandler) Status(c *fiber.Ctx) error {
	status, err := h.devices.Status(requestContext(c), c.Params("device_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeviceStatusResponse{
		Success:          true,
		DeviceID:         status.DeviceID,
		Device:           status.Device,
		HasActiveSession: status.HasActiveSession,
		SessionID:        optional(status.SessionID),
	}})
}

func deviceResponse(device domain.Device) dto.DeviceResponse {
	return dto.DeviceResponse{
		ID:             device.ID,
		Name:           device.Name,
		Type:           device.Type,
		Alias:          device.Alias,
		LocationID:     device.LocationID,
		ConnectedUAHID: device.ConnectedUAHID,
	}
}
