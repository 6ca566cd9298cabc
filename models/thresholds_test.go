package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeContainsIsInclusive(t *testing.T) {
	r := Range{26, 30}
	assert.True(t, r.Contains(26))
	assert.True(t, r.Contains(30))
	assert.False(t, r.Contains(25.99))
	assert.False(t, r.Contains(30.01))
}

func TestRangeClip(t *testing.T) {
	r := Range{3500, 4100}
	assert.Equal(t, 3500.0, r.Clip(3000))
	assert.Equal(t, 4100.0, r.Clip(5000))
	assert.Equal(t, 3800.0, r.Clip(3800))
}

func TestClassifyBoundaries(t *testing.T) {
	temp := DefaultThresholds()[ParamTemperature]

	tests := []struct {
		value float64
		want  Status
	}{
		{26, StatusOptimal},
		{30, StatusOptimal},
		{25.9, StatusAcceptable},
		{24, StatusAcceptable},
		{32, StatusAcceptable},
		{23.9, StatusCritical},
		{32.1, StatusCritical},
		{22, StatusCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, temp.Classify(tt.value), "temperature %.1f", tt.value)
	}

	do := DefaultThresholds()[ParamDissolvedOxygen]
	assert.Equal(t, StatusOptimal, do.Classify(5))
	assert.Equal(t, StatusAcceptable, do.Classify(8.5))
	assert.Equal(t, StatusCritical, do.Classify(3.9))
	assert.Equal(t, StatusCritical, do.Classify(9.1))
}

func TestDefaultThresholdsAreNested(t *testing.T) {
	for param, levels := range DefaultThresholds() {
		assert.LessOrEqual(t, levels.Acceptable.Min, levels.Optimal.Min, param)
		assert.GreaterOrEqual(t, levels.Acceptable.Max, levels.Optimal.Max, param)
		assert.LessOrEqual(t, levels.Critical.Min, levels.Acceptable.Min, param)
		assert.GreaterOrEqual(t, levels.Critical.Max, levels.Acceptable.Max, param)
	}
}
