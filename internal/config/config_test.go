package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UNIFI_ACCESS_HOST", "https://controller.local:12445/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://controller.local:12445/api/v1/developer", cfg.Unifi.BaseURL())
	assert.True(t, cfg.Unifi.InsecureTLS)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 300*time.Second, cfg.Cache.DeviceTTL())
	assert.Equal(t, 120*time.Second, cfg.Cache.SessionTTL())
	assert.Equal(t, time.Second, cfg.Unifi.PollInterval())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "Memory")
	t.Setenv("CACHE_SESSION_TTL_SECONDS", "45")
	t.Setenv("UNIFI_INSECURE_TLS", "false")
	t.Setenv("UNIFI_POLL_INTERVAL_MILLIS", "250")
	t.Setenv("UNIFI_READ_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 45*time.Second, cfg.Cache.SessionTTL())
	assert.False(t, cfg.Unifi.InsecureTLS)
	assert.Equal(t, 250*time.Millisecond, cfg.Unifi.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.Unifi.ReadTimeout())
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.Error(t, err)
}
