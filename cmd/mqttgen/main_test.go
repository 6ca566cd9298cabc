package main

import (
	"testing"
	"time"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayRows() []models.DatasetRow {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.DatasetRow
	for i := 0; i < 6; i++ {
		rows = append(rows, models.DatasetRow{
			EntryID:   i + 1,
			TankID:    i%3 + 1,
			Timestamp: start.Add(time.Duration(i/3) * 30 * time.Minute),
			Reading:   models.SensorReading{Temperature: 27 + float64(i)},
		})
	}
	return rows
}

func TestReplaySourceInOrder(t *testing.T) {
	src := NewReplaySource(replayRows(), 0, false)

	for i := 1; i <= 6; i++ {
		msg, ok := src.Next(false)
		require.True(t, ok)
		assert.Equal(t, 26+float64(i), msg.Temperature)
		assert.Equal(t, models.TankDeviceID(msg.TankID), msg.DeviceID)
	}
	_, ok := src.Next(false)
	assert.False(t, ok)
}

func TestReplaySourceFiltersTankAndLoops(t *testing.T) {
	src := NewReplaySource(replayRows(), 2, true)

	var temps []float64
	for i := 0; i < 4; i++ {
		msg, ok := src.Next(false)
		require.True(t, ok)
		assert.Equal(t, 2, msg.TankID)
		temps = append(temps, msg.Temperature)
	}
	assert.Equal(t, []float64{28, 31, 28, 31}, temps)
}

func TestReplaySourceLiveTimestamps(t *testing.T) {
	src := NewReplaySource(replayRows(), 0, false)

	before := time.Now()
	msg, ok := src.Next(true)
	require.True(t, ok)
	assert.False(t, msg.Timestamp.Before(before))

	empty := NewReplaySource(nil, 0, true)
	_, ok = empty.Next(false)
	assert.False(t, ok)
}
