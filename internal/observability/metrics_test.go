package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/rfid/read", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/rfid/read", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/rfid/confirm", "POST", "NO_PENDING_SESSION")
	m.RecordDirectoryCall("list_devices", false)
	m.RecordDirectoryCall("list_devices", true)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/rfid/read|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMS["/api/rfid/read|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/rfid/confirm|POST|NO_PENDING_SESSION"])
	assert.Equal(t, int64(1), snap.DirectoryOutcomes["list_devices|unavailable"])
	assert.Equal(t, int64(1), snap.DirectoryOutcomes["list_devices|ok"])
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordDirectoryCall("x", true)
	assert.Empty(t, m.Snapshot().Requests)
}
