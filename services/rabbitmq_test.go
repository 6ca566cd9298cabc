package services

import (
	"encoding/json"
	"testing"
	"time"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReadingMessage(t *testing.T) {
	sent := models.TankReadingMessage{
		DeviceID:      "TANK-PROBE-003",
		TankID:        3,
		Timestamp:     time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		SensorReading: optimalReading(),
	}
	body, err := json.Marshal(sent)
	require.NoError(t, err)

	msg, err := decodeReadingMessage(body)
	require.NoError(t, err)
	assert.Equal(t, "Mrigal", msg.Species)
	assert.Equal(t, 28.0, msg.Temperature)
	assert.Equal(t, 3800.0, msg.SoilMoisture)
	assert.True(t, sent.Timestamp.Equal(msg.Timestamp))
}

func TestDecodeReadingMessageDefaultsTimestamp(t *testing.T) {
	msg, err := decodeReadingMessage([]byte(`{"device_id":"TANK-PROBE-001","tank_id":1,"temperature":29.5}`))
	require.NoError(t, err)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, "Rohu", msg.Species)
	assert.Equal(t, 29.5, msg.Temperature)
}

func TestDecodeReadingMessageRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"device_id":`},
		{"missing device", `{"tank_id":1}`},
		{"unknown tank", `{"device_id":"TANK-PROBE-009","tank_id":9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeReadingMessage([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, isDecodeError(err))
		})
	}

	_, err := decodeReadingMessage([]byte(`{"device_id":"x","tank_id":9}`))
	assert.ErrorIs(t, err, ErrUnknownTank)
}
