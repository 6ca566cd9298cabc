package services

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var forecastStart = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func seriesTimes(n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = forecastStart.Add(time.Duration(i) * 30 * time.Minute)
	}
	return times
}

func TestFitLinearSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 2 * float64(i)
	}

	m, err := FitDiffARModel(seriesTimes(30), values, 20)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.Intercept, 1e-9)
	assert.Equal(t, 0.0, m.Phi)
	assert.Equal(t, 30*time.Minute, m.Step())

	forecast := m.Forecast(3)
	assert.InDeltaSlice(t, []float64{60, 62, 64}, forecast, 1e-9)
}

func TestFitAlternatingSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i % 2)
	}

	m, err := FitDiffARModel(seriesTimes(40), values, 20)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, m.Phi, 1e-9)
	assert.InDelta(t, 0.0, m.Intercept, 1e-9)

	// last value is 1 after a +1 step, so the series keeps alternating
	assert.InDeltaSlice(t, []float64{0, 1, 0, 1}, m.Forecast(4), 1e-9)
}

func TestFitTooFewPoints(t *testing.T) {
	_, err := FitDiffARModel(seriesTimes(10), make([]float64, 10), 20)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = FitDiffARModel(seriesTimes(2), make([]float64, 2), 0)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = FitDiffARModel(seriesTimes(3), make([]float64, 4), 0)
	assert.Error(t, err)
}

func TestModelPredictAt(t *testing.T) {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 10 + float64(i)
	}
	times := seriesTimes(25)
	m, err := FitDiffARModel(times, values, 20)
	require.NoError(t, err)

	_, ok := m.PredictAt(forecastStart.Add(-time.Minute))
	assert.False(t, ok)

	v, ok := m.PredictAt(times[5])
	require.True(t, ok)
	assert.Equal(t, 15.0, v)

	v, ok = m.PredictAt(times[5].Add(10 * time.Minute))
	require.True(t, ok)
	assert.Equal(t, 15.0, v)

	// 45 minutes past the last observation is two 30 minute steps ahead
	v, ok = m.PredictAt(m.LastTime().Add(45 * time.Minute))
	require.True(t, ok)
	assert.InDelta(t, 36.0, v, 1e-9)
}

func tableFromSeries(tankID int, values []string) *Table {
	t := &Table{Columns: []string{models.ColTimestamp, models.ColTankID, models.ColTemperature, models.ColWaterQualityIndex}}
	times := seriesTimes(len(values))
	// reversed so Fit has to sort
	for i := len(values) - 1; i >= 0; i-- {
		t.Rows = append(t.Rows, []string{
			times[i].Format(models.TimestampLayout),
			strconv.Itoa(tankID),
			values[i],
			"Good",
		})
	}
	return t
}

func TestForecasterFitAndSkip(t *testing.T) {
	values := make([]string, 30)
	for i := range values {
		values[i] = strconv.Itoa(20 + i)
	}
	table := tableFromSeries(1, values)
	short := tableFromSeries(2, values[:10])
	table.Rows = append(table.Rows, short.Rows...)

	f := NewForecaster(ForecastOptions{
		Steps:     5,
		MinPoints: 20,
		Features:  []string{models.ColTemperature, models.ColWaterQualityIndex, models.ColTurbidity},
	}, zap.NewNop())

	points, err := f.Fit(table)
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.Equal(t, []int{1, 2}, f.TankIDs())

	last := forecastStart.Add(29 * 30 * time.Minute)
	for i, p := range points {
		assert.Equal(t, 1, p.TankID)
		assert.Equal(t, models.ColTemperature, p.Feature)
		assert.Equal(t, last.Add(time.Duration(i+1)*30*time.Minute), p.Time)
		assert.InDelta(t, 50+float64(i), p.Value, 1e-9)
	}

	_, ok := f.Model(1, models.ColWaterQualityIndex)
	assert.False(t, ok)
	_, ok = f.Model(2, models.ColTemperature)
	assert.False(t, ok)

	v, ok := f.PredictAt(1, models.ColTemperature, forecastStart)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	v, ok = f.PredictAt(2, models.ColTemperature, forecastStart)
	assert.False(t, ok)
	assert.True(t, math.IsNaN(v))
}

func TestForecasterFitGeneratedTable(t *testing.T) {
	ds, err := NewGenerator(smallOptions(40), zap.NewNop()).Generate()
	require.NoError(t, err)

	f := NewForecaster(DefaultForecastOptions(), zap.NewNop())
	points, err := f.Fit(TableFromRows(ds.Rows))
	require.NoError(t, err)

	// Water_Quality_Index is categorical and never fitted
	assert.Len(t, points, 3*4*10)
	for _, tankID := range models.TankIDs() {
		_, ok := f.Model(tankID, models.ColWaterQualityIndex)
		assert.False(t, ok)
		_, ok = f.Model(tankID, models.ColSoilMoisture)
		assert.True(t, ok)
	}
}

func TestForecasterFitMissingColumns(t *testing.T) {
	f := NewForecaster(DefaultForecastOptions(), zap.NewNop())

	_, err := f.Fit(&Table{Columns: []string{models.ColTankID}})
	assert.Error(t, err)

	_, err = f.Fit(&Table{
		Columns: []string{models.ColTimestamp, models.ColTankID},
		Rows:    [][]string{{"2025-06-01", "1"}},
	})
	assert.ErrorContains(t, err, "invalid timestamp")
}

func TestWriteForecastCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecasts.csv")
	points := []models.ForecastPoint{
		{TankID: 1, Feature: models.ColTemperature, Time: forecastStart, Value: 28.25},
		{TankID: 3, Feature: models.ColSoilMoisture, Time: forecastStart.Add(30 * time.Minute), Value: 3810},
	}
	require.NoError(t, WriteForecastCSV(path, points))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ForecastCSVColumns, records[0])
	assert.Equal(t, []string{"1", models.ColTemperature, "2025-06-01 00:00:00", "28.25"}, records[1])
	assert.Equal(t, []string{"3", models.ColSoilMoisture, "2025-06-01 00:30:00", "3810"}, records[2])
}
