package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/repository"
	"github.com/spec-kit/club-access-service/internal/unifi"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByName(ctx context.Context, firstName, lastName string) ([]domain.Member, error) {
	args := m.Called(ctx, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomRepository) ListWithDevice(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByDeviceID(ctx context.Context, deviceID string, excludeID int64) (*domain.Room, error) {
	args := m.Called(ctx, deviceID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

// memoryDebugLog is an in-process debug log.
type memoryDebugLog struct {
	mu      sync.Mutex
	entries []domain.DebugLogEntry
	err     error
	filters []repository.DebugLogFilter
}

func (l *memoryDebugLog) Create(_ context.Context, entry *domain.DebugLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	entry.ID = int64(len(l.entries) + 1)
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *memoryDebugLog) List(_ context.Context, filter repository.DebugLogFilter) ([]domain.DebugLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filters = append(l.filters, filter)
	var result []domain.DebugLogEntry
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if filter.DeviceID != nil && (entry.DeviceID == nil || *entry.DeviceID != *filter.DeviceID) {
			continue
		}
		result = append(result, entry)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (l *memoryDebugLog) statuses() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.Status)
	}
	return out
}

func (l *memoryDebugLog) last() domain.DebugLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[len(l.entries)-1]
}

// fakeCardDirectory scripts the reader and user directory.
type fakeCardDirectory struct {
	mu sync.Mutex

	sessionID string
	startErr  error
	token     string
	users     map[string]*domain.DirectoryUser
	usersErr  error
	deleteErr error

	started  []string
	deleted  []string
	lookedUp []string
}

func (f *fakeCardDirectory) StartCardSession(_ context.Context, deviceID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, deviceID)
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.sessionID, nil
}

func (f *fakeCardDirectory) WaitForCardToken(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeCardDirectory) DeleteCardSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, sessionID)
	return f.deleteErr
}

func (f *fakeCardDirectory) FindUserByCardToken(_ context.Context, token string) (*domain.DirectoryUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookedUp = append(f.lookedUp, token)
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users[token], nil
}

// fakeDeviceDirectory counts list calls.
type fakeDeviceDirectory struct {
	mu        sync.Mutex
	devices   []domain.Device
	listErr   error
	listCalls int
	records   map[string]map[string]any
	getErr    error
}

func (f *fakeDeviceDirectory) ListDevices(context.Context) ([]domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return []domain.Device{}, f.listErr
	}
	return append([]domain.Device(nil), f.devices...), nil
}

func (f *fakeDeviceDirectory) GetDevice(_ context.Context, deviceID string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	record, ok := f.records[deviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", unifi.ErrNotFound, deviceID)
	}
	return record, nil
}

func (f *fakeDeviceDirectory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func strPtr(s string) *string { return &s }
