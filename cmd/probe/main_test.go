package main

import (
	"testing"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleReading(t *testing.T) {
	msg, err := sampleReading(2, 42, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "TANK-PROBE-002", msg.DeviceID)
	assert.Equal(t, "Catla", msg.Species)
	assert.Empty(t, models.DefaultReadingBounds().Violations(msg.SensorReading))

	again, err := sampleReading(2, 42, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, msg.SensorReading, again.SensorReading)
}

func TestSampleReadingOverrides(t *testing.T) {
	msg, err := sampleReading(1, 7, 4050, 33.5, 3.4)
	require.NoError(t, err)
	assert.Equal(t, 4050.0, msg.SoilMoisture)
	assert.Equal(t, 33.5, msg.Temperature)
	assert.Equal(t, 3.4, msg.DissolvedOxygen)

	_, err = sampleReading(5, 7, 0, 0, 0)
	assert.Error(t, err)
}
