package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/club-access-service/internal/cache"
	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/repository"
	"github.com/spec-kit/club-access-service/internal/unifi"
	apperrors "github.com/spec-kit/club-access-service/pkg/util"
)

const (
	devicesCacheKey = "unifi_devices"

	unknownDeviceName = "Unbekanntes Gerät"
	unknownDeviceType = "unknown"
)

// DeviceDirectory is the device side of the access directory.
type DeviceDirectory interface {
	ListDevices(ctx context.Context) ([]domain.Device, error)
	GetDevice(ctx context.Context, deviceID string) (map[string]any, error)
}

// DeviceService caches the directory's device list and joins it with the
// rooms the devices are mounted in.
type DeviceService struct {
	directory DeviceDirectory
	store     cache.Store
	rooms     repository.RoomRepository
	sessions  *cache.SessionCache
	ttl       time.Duration
	logger    *zap.Logger
}

// DeviceDependencies bundles collaborators for the device service.
type DeviceDependencies struct {
	Directory DeviceDirectory
	Store     cache.Store
	RoomRepo  repository.RoomRepository
	Sessions  *cache.SessionCache
	TTL       time.Duration
	Logger    *zap.Logger
}

// DeviceListItem is one row of the device listing.
type DeviceListItem struct {
	domain.Device
	IsAssigned bool
	AssignedTo *domain.DeviceAssignment
}

// DeviceListing is the device list joined with room assignments.
// DirectoryAvailable is false when the list could not be fetched.
type DeviceListing struct {
	Devices            []DeviceListItem
	DirectoryAvailable bool
}

// DeviceStatus is the raw directory record plus the local session state.
type DeviceStatus struct {
	DeviceID         string
	Device           map[string]any
	HasActiveSession bool
	SessionID        string
}

// NewDeviceService constructs the service.
func NewDeviceService(deps DeviceDependencies) *DeviceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceService{
		directory: deps.Directory,
		store:     deps.Store,
		rooms:     deps.RoomRepo,
		sessions:  deps.Sessions,
		ttl:       deps.TTL,
		logger:    logger,
	}
}

// Devices returns the device list, served from cache while the entry lives.
// Reads never extend the entry's lifetime. Only answers from a reachable
// directory are cached; on failure an empty list and an error wrapping
// unifi.ErrUnavailable are returned.
func (s *DeviceService) Devices(ctx context.Context) ([]domain.Device, error) {
	var cached []domain.Device
	err := cache.GetJSON(ctx, s.store, devicesCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("device cache read failed", zap.Error(err))
	}

	devices, err := s.directory.ListDevices(ctx)
	if err != nil {
		return []domain.Device{}, err
	}
	if err := cache.SetJSON(ctx, s.store, devicesCacheKey, devices, s.ttl); err != nil {
		s.logger.Warn("device cache write failed", zap.Error(err))
	}
	return devices, nil
}

// Assignments maps every assigned device id to its room. Computed fresh on
// each call.
func (s *DeviceService) Assignments(ctx context.Context) (map[string]domain.DeviceAssignment, error) {
	rooms, err := s.rooms.ListWithDevice(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	assignments := make(map[string]domain.DeviceAssignment, len(rooms))
	for _, room := range rooms {
		deviceID := room.DeviceID()
		if deviceID == "" {
			continue
		}
		assignments[deviceID] = domain.DeviceAssignment{RoomID: room.ID, RoomName: room.Name}
	}
	return assignments, nil
}

// ListWithAssignments formats the device list for the admin UI.
func (s *DeviceService) ListWithAssignments(ctx context.Context) (*DeviceListing, error) {
	devices, err := s.Devices(ctx)
	listing := &DeviceListing{DirectoryAvailable: err == nil}
	if err != nil {
		s.logger.Warn("device list unavailable", zap.Error(err))
	}

	assignments, err := s.Assignments(ctx)
	if err != nil {
		return nil, err
	}

	listing.Devices = make([]DeviceListItem, 0, len(devices))
	for _, device := range devices {
		if device.Name == "" {
			device.Name = unknownDeviceName
		}
		if device.Type == "" {
			device.Type = unknownDeviceType
		}
		item := DeviceListItem{Device: device}
		if assignment, ok := assignments[device.ID]; ok {
			item.IsAssigned = true
			item.AssignedTo = &assignment
		}
		listing.Devices = append(listing.Devices, item)
	}
	return listing, nil
}

// DeviceInfo returns the cached record of deviceID, or nil when the device
// is unknown or the directory is unreachable.
func (s *DeviceService) DeviceInfo(ctx context.Context, deviceID string) *domain.Device {
	if deviceID == "" {
		return nil
	}
	return s.deviceIndex(ctx)[deviceID]
}

// deviceIndex keys the cached device list by id. It is empty when the
// directory is unreachable.
func (s *DeviceService) deviceIndex(ctx context.Context) map[string]*domain.Device {
	devices, err := s.Devices(ctx)
	if err != nil {
		s.logger.Debug("device info unavailable", zap.Error(err))
	}
	index := make(map[string]*domain.Device, len(devices))
	for i := range devices {
		index[devices[i].ID] = &devices[i]
	}
	return index
}

// Status fetches one device from the directory and reports whether an
// enrollment session is open on it.
func (s *DeviceService) Status(ctx context.Context, deviceID string) (*DeviceStatus, error) {
	if deviceID == "" {
		return nil, apperrors.NewValidationError("device id required", nil)
	}

	device, err := s.directory.GetDevice(ctx, deviceID)
	if err != nil {
		details := map[string]any{"device_id": deviceID}
		if errors.Is(err, unifi.ErrNotFound) {
			return nil, ErrDeviceNotFound.WithDetails(details)
		}
		return nil, ErrDirectoryUnavailable.WithDetails(details)
	}

	sessionID, err := s.sessions.ActiveSession(ctx, deviceID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &DeviceStatus{
		DeviceID:         deviceID,
		Device:           device,
		HasActiveSession: sessionID != "",
		SessionID:        sessionID,
	}, nil
}
