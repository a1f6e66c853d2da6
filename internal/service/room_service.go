package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/repository"
	apperrors "github.com/spec-kit/club-access-service/pkg/util"
)

const pgUniqueViolation = "23505"

// RoomService manages rooms and their reader assignment.
type RoomService struct {
	rooms   repository.RoomRepository
	devices *DeviceService
}

// RoomInput describes a room create or update.
type RoomInput struct {
	Name          string
	Description   string
	Capacity      int
	IsActive      *bool
	RoomType      domain.RoomType
	UnifiDeviceID *string
}

// RoomDetail is a room with the directory record of its reader.
type RoomDetail struct {
	domain.Room
	DeviceInfo *domain.Device
}

// NewRoomService constructs the service.
func NewRoomService(rooms repository.RoomRepository, devices *DeviceService) *RoomService {
	return &RoomService{rooms: rooms, devices: devices}
}

// Create validates input and stores a new room.
func (s *RoomService) Create(ctx context.Context, input RoomInput) (*RoomDetail, error) {
	room := &domain.Room{IsActive: true}
	if err := applyRoomInput(room, input); err != nil {
		return nil, err
	}
	if err := s.ensureDeviceFree(ctx, room.UnifiDeviceID, 0); err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, mapRoomWriteError(err, room)
	}
	return s.detail(ctx, room), nil
}

// Update replaces a room's attributes.
func (s *RoomService) Update(ctx context.Context, id int64, input RoomInput) (*RoomDetail, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyRoomInput(room, input); err != nil {
		return nil, err
	}
	if err := s.ensureDeviceFree(ctx, room.UnifiDeviceID, room.ID); err != nil {
		return nil, err
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", map[string]any{"room_id": id})
		}
		return nil, mapRoomWriteError(err, room)
	}
	return s.detail(ctx, room), nil
}

// Delete removes a room.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("room", map[string]any{"room_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Get returns one room with its reader info.
func (s *RoomService) Get(ctx context.Context, id int64) (*RoomDetail, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, room), nil
}

// List returns all rooms with reader info resolved from one device list.
func (s *RoomService) List(ctx context.Context) ([]RoomDetail, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var index map[string]*domain.Device
	if s.devices != nil {
		index = s.devices.deviceIndex(ctx)
	}
	result := make([]RoomDetail, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, RoomDetail{Room: room, DeviceInfo: index[room.DeviceID()]})
	}
	return result, nil
}

func (s *RoomService) get(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", map[string]any{"room_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

func (s *RoomService) detail(ctx context.Context, room *domain.Room) *RoomDetail {
	detail := &RoomDetail{Room: *room}
	if s.devices != nil {
		detail.DeviceInfo = s.devices.DeviceInfo(ctx, room.DeviceID())
	}
	return detail
}

// ensureDeviceFree rejects deviceID when a room other than roomID holds it.
func (s *RoomService) ensureDeviceFree(ctx context.Context, deviceID *string, roomID int64) error {
	if deviceID == nil {
		return nil
	}
	existing, err := s.rooms.FindByDeviceID(ctx, *deviceID, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	return ErrDeviceAlreadyAssigned.WithDetails(map[string]any{
		"device_id": *deviceID,
		"room_id":   existing.ID,
		"room_name": existing.Name,
	})
}

func applyRoomInput(room *domain.Room, input RoomInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperrors.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if input.Capacity < 0 {
		return apperrors.NewValidationError("capacity must not be negative", map[string]any{"field": "capacity"})
	}

	roomType := input.RoomType
	if roomType == "" {
		roomType = domain.RoomTypeOther
	}
	if !roomType.Valid() {
		return apperrors.NewValidationError("unknown room type", map[string]any{"field": "room_type", "value": roomType})
	}

	room.Name = name
	room.Description = strings.TrimSpace(input.Description)
	room.Capacity = input.Capacity
	room.RoomType = roomType
	if input.IsActive != nil {
		room.IsActive = *input.IsActive
	}

	room.UnifiDeviceID = nil
	if input.UnifiDeviceID != nil {
		if deviceID := strings.TrimSpace(*input.UnifiDeviceID); deviceID != "" {
			room.UnifiDeviceID = &deviceID
		}
	}
	return nil
}

// mapRoomWriteError turns the unique index on the device column into the
// same conflict ensureDeviceFree reports.
func mapRoomWriteError(err error, room *domain.Room) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDeviceAlreadyAssigned.WithDetails(map[string]any{"device_id": room.DeviceID()})
	}
	return apperrors.MapError(err)
}
