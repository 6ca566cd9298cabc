package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionTargets(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 7, 33, 0, time.UTC)

	targets, err := predictionTargets("", now)
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, time.Date(2025, time.June, 10, 14, 37, 0, 0, time.UTC), targets[0].time)
	assert.Equal(t, time.Date(2025, time.June, 11, 14, 7, 0, 0, time.UTC), targets[1].time)
	assert.Equal(t, time.Date(2025, time.July, 10, 14, 7, 0, 0, time.UTC), targets[2].time)

	targets, err = predictionTargets("15-06-2025 08:30", now)
	require.NoError(t, err)
	require.Len(t, targets, 4)
	assert.Equal(t, "Requested time", targets[0].label)
	assert.Equal(t, time.Date(2025, time.June, 15, 8, 30, 0, 0, time.UTC), targets[0].time)

	_, err = predictionTargets("2025-06-15 08:30", now)
	assert.Error(t, err)
}
