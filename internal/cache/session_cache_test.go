package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/club-access-service/internal/domain"
)

func TestSessionCacheKeys(t *testing.T) {
	assert.Equal(t, "rfid_pending_session", PendingKey(""))
	assert.Equal(t, "rfid_pending_session_R1", PendingKey("R1"))
	assert.Equal(t, "active_rfid_session_id", ActiveSessionKey(""))
	assert.Equal(t, "active_rfid_session_id_R1", ActiveSessionKey("R1"))
}

func TestSessionCachePendingIsScopedPerDevice(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionCache(NewMemoryStore(), time.Minute)

	require.NoError(t, sessions.PutPending(ctx, domain.PendingSession{DeviceID: "R1", Token: "ABC123", ExternalUserID: "u-1", ExternalFullName: "Jane Doe"}))
	require.NoError(t, sessions.PutPending(ctx, domain.PendingSession{Token: "GLOBAL"}))

	r1, err := sessions.Pending(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, r1)
	assert.Equal(t, "ABC123", r1.Token)
	assert.Equal(t, "Jane Doe", r1.ExternalFullName)

	global, err := sessions.Pending(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, global)
	assert.Equal(t, "GLOBAL", global.Token)

	r2, err := sessions.Pending(ctx, "R2")
	require.NoError(t, err)
	assert.Nil(t, r2)
}

func TestSessionCacheNewReadOverwritesPending(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionCache(NewMemoryStore(), time.Minute)

	require.NoError(t, sessions.PutPending(ctx, domain.PendingSession{DeviceID: "R1", Token: "FIRST"}))
	require.NoError(t, sessions.PutPending(ctx, domain.PendingSession{DeviceID: "R1", Token: "SECOND"}))

	pending, err := sessions.Pending(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "SECOND", pending.Token)

	require.NoError(t, sessions.DeletePending(ctx, "R1"))
	pending, err = sessions.Pending(ctx, "R1")
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestSessionCacheActiveSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionCache(NewMemoryStore(), time.Minute)

	id, err := sessions.ActiveSession(ctx, "R1")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, sessions.PutActiveSession(ctx, "R1", "sess-42"))
	id, err = sessions.ActiveSession(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "sess-42", id)

	require.NoError(t, sessions.DeleteActiveSession(ctx, "R1"))
	id, err = sessions.ActiveSession(ctx, "R1")
	require.NoError(t, err)
	assert.Empty(t, id)
}
