package unifi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenDevices(t *testing.T) {
	for name, test := range map[string]struct {
		data    string
		wantIDs []string
		wantErr bool
	}{
		"flat list": {
			data:    `[{"id":"a"},{"id":"b"}]`,
			wantIDs: []string{"a", "b"},
		},
		"list of lists keeps order": {
			data:    `[[{"id":"a"},{"id":"b"}],[{"id":"c"}]]`,
			wantIDs: []string{"a", "b", "c"},
		},
		"mixed groups and single devices": {
			data:    `[{"id":"a"},[{"id":"b"},{"id":"c"}],{"id":"d"},[]]`,
			wantIDs: []string{"a", "b", "c", "d"},
		},
		"scalars are skipped": {
			data:    `["junk", 3, {"id":"a"}, null]`,
			wantIDs: []string{"a"},
		},
		"null data": {
			data:    `null`,
			wantIDs: []string{},
		},
		"empty data": {
			data:    ``,
			wantIDs: []string{},
		},
		"object instead of list": {
			data:    `{"id":"a"}`,
			wantErr: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			devices, err := flattenDevices(json.RawMessage(test.data))
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(devices))
			for _, d := range devices {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, test.wantIDs, ids)
		})
	}
}

func TestFlattenDevicesMapsFields(t *testing.T) {
	devices, err := flattenDevices(json.RawMessage(`[[{"id":"d1","name":"Front Door","alias":"Eingang","type":"UA-G2-PRO","location_id":"loc-1","connected_uah_id":"hub-1"}]]`))
	require.NoError(t, err)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, "Front Door", d.Name)
	assert.Equal(t, "Eingang", d.Alias)
	assert.Equal(t, "UA-G2-PRO", d.Type)
	assert.Equal(t, "loc-1", d.LocationID)
	assert.Equal(t, "hub-1", d.ConnectedUAHID)
}

func TestMatchCardToken(t *testing.T) {
	users := []userPayload{
		{ID: "u-1", FullName: "John Smith", NFCCards: []nfcCardPayload{{Token: "XYZ"}}},
		{ID: "u-2", FirstName: "Jane", LastName: "Doe", NFCCards: []nfcCardPayload{{Token: "OLD"}, {Token: "ABC123"}}},
		{ID: "u-3", FullName: "Shadow", NFCCards: []nfcCardPayload{{Token: "ABC123"}}},
	}

	user := matchCardToken(users, "ABC123")
	require.NotNil(t, user)
	assert.Equal(t, "u-2", user.ID)
	assert.Equal(t, "Jane Doe", user.FullName)

	assert.Nil(t, matchCardToken(users, "abc123"))
	assert.Nil(t, matchCardToken(nil, "ABC123"))
}
