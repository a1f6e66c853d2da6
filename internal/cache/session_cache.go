package cache

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/club-access-service/internal/domain"
)

const (
	pendingKeyPrefix       = "rfid_pending_session"
	activeSessionKeyPrefix = "active_rfid_session_id"
)

// SessionCache holds, per reader, the pending badge read awaiting
// confirmation and the id of the enrollment session open on the directory.
// A key without a device id is the single global slot.
type SessionCache struct {
	store Store
	ttl   time.Duration
}

// NewSessionCache builds a cache whose entries live for ttl.
func NewSessionCache(store Store, ttl time.Duration) *SessionCache {
	return &SessionCache{store: store, ttl: ttl}
}

// PendingKey is the cache key of the pending session for deviceID.
func PendingKey(deviceID string) string {
	return scopedKey(pendingKeyPrefix, deviceID)
}

// ActiveSessionKey is the cache key of the remote enrollment session id.
func ActiveSessionKey(deviceID string) string {
	return scopedKey(activeSessionKeyPrefix, deviceID)
}

func scopedKey(prefix, deviceID string) string {
	if deviceID == "" {
		return prefix
	}
	return prefix + "_" + deviceID
}

// PutPending stores session, replacing whatever was pending on the key.
func (c *SessionCache) PutPending(ctx context.Context, session domain.PendingSession) error {
	return SetJSON(ctx, c.store, PendingKey(session.DeviceID), session, c.ttl)
}

// Pending returns the pending session for deviceID or nil when none is live.
func (c *SessionCache) Pending(ctx context.Context, deviceID string) (*domain.PendingSession, error) {
	var session domain.PendingSession
	if err := GetJSON(ctx, c.store, PendingKey(deviceID), &session); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (c *SessionCache) DeletePending(ctx context.Context, deviceID string) error {
	return c.store.Delete(ctx, PendingKey(deviceID))
}

// PutActiveSession records the remote enrollment session id for deviceID.
func (c *SessionCache) PutActiveSession(ctx context.Context, deviceID, sessionID string) error {
	return c.store.Set(ctx, ActiveSessionKey(deviceID), sessionID, c.ttl)
}

// ActiveSession returns the remote session id or "" when none is recorded.
func (c *SessionCache) ActiveSession(ctx context.Context, deviceID string) (string, error) {
	id, err := c.store.Get(ctx, ActiveSessionKey(deviceID))
	if errors.Is(err, ErrCacheMiss) {
		return "", nil
	}
	return id, err
}

func (c *SessionCache) DeleteActiveSession(ctx context.Context, deviceID string) error {
	return c.store.Delete(ctx, ActiveSessionKey(deviceID))
}
