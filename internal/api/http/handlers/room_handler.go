package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-access-service/internal/api/dto"
	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/service"
)

// RoomHandler exposes room CRUD.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler constructs handler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/rooms.
func (h *RoomHandler) List(c *fiber.Ctx) error {
	rooms, err := h.rooms.List(requestContext(c))
	if err != nil {
		return err
	}
	out := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomResponse(&rooms[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/rooms/:id.
func (h *RoomHandler) Get(c *fiber.Ctx) error {
	id, err := roomID(c)
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(requestContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roomResponse(room)})
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(c *fiber.Ctx) error {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	room, err := h.rooms.Create(requestContext(c), roomInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": roomResponse(room)})
}

// Update handles PUT /api/rooms/:id.
func (h *RoomHandler) Update(c *fiber.Ctx) error {
	id, err := roomID(c)
	if err != nil {
		return err
	}
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	room, err := h.rooms.Update(requestContext(c), id, roomInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roomResponse(room)})
}

// Delete handles DELETE /api/rooms/:id.
func (h *RoomHandler) Delete(c *fiber.Ctx) error {
	id, err := roomID(c)
	if err != nil {
		return err
	}
	if err := h.rooms.Delete(requestContext(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func roomID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid room id")
	}
	return id, nil
}

func roomInput(req dto.RoomRequest) service.RoomInput {
	return service.RoomInput{
		Name:          req.Name,
		Description:   req.Description,
		Capacity:      req.Capacity,
		IsActive:      req.IsActive,
		RoomType:      domain.RoomType(req.RoomType),
		UnifiDeviceID: req.UnifiDeviceID,
	}
}

func roomResponse(room *service.RoomDetail) dto.RoomResponse {
	resp := dto.RoomResponse{
		ID:            room.ID,
		Name:          room.Name,
		Description:   room.Description,
		Capacity:      room.Capacity,
		IsActive:      room.IsActive,
		RoomType:      string(room.RoomType),
		UnifiDeviceID: room.UnifiDeviceID,
		CreatedAt:     room.CreatedAt,
		UpdatedAt:     room.UpdatedAt,
	}
	if room.DeviceInfo != nil {
		info := deviceResponse(*room.DeviceInfo)
		resp.UnifiDeviceInfo = &info
	}
	return resp
}
