package services

import (
	"testing"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSummarize(t *testing.T) {
	ds, err := NewGenerator(smallOptions(200), zap.NewNop()).Generate()
	require.NoError(t, err)

	s := Summarize(ds.Rows)
	assert.Equal(t, 600, s.Rows)
	assert.Equal(t, map[string]int{"Rohu": 200, "Catla": 200, "Mrigal": 200}, s.Species)

	for _, col := range SummaryLabelColumns {
		total := 0
		for _, n := range s.Labels[col] {
			total += n
		}
		assert.Equal(t, 600, total, col)
	}

	require.Len(t, s.Stats, len(SummaryStatColumns))
	temp := s.Stats[0]
	assert.Equal(t, models.ColTemperature, temp.Column)
	assert.InDelta(t, 27.5, temp.Mean, 0.3)
	assert.GreaterOrEqual(t, temp.Min, 22.0)
	assert.LessOrEqual(t, temp.Max, 35.0)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Rows)
	assert.Empty(t, s.Stats)
	assert.Empty(t, s.Labels[models.ColGrowthCondition])
}

func TestSummaryLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ds, err := NewGenerator(smallOptions(5), zap.NewNop()).Generate()
	require.NoError(t, err)

	Summarize(ds.Rows).Log(zap.New(core))
	assert.Equal(t, 1, logs.FilterMessage("Species distribution").Len())
	assert.Equal(t, len(SummaryLabelColumns), logs.FilterMessage("Label distribution").Len())
	assert.Equal(t, len(SummaryStatColumns), logs.FilterMessage("Parameter statistics").Len())
}
