package services

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"hatchery/models"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// DefaultForecastStep is used when a series has fewer than two timestamps
const DefaultForecastStep = 30 * time.Minute

// ForecastTimeLayout is the Forecast_Time format of the CSV output
const ForecastTimeLayout = "2006-01-02 15:04:05"

// ForecastFeatures are the main table columns forecast per tank
var ForecastFeatures = []string{
	models.ColTemperature,
	models.ColDissolvedOxygen,
	models.ColTurbidity,
	models.ColWaterQualityIndex,
	models.ColSoilMoisture,
}

// ForecastCSVColumns is the header of the forecast CSV
var ForecastCSVColumns = []string{"Tank_ID", "Feature", "Forecast_Time", "Forecast_Value"}

// DiffARModel is a first-differenced AR(1) model, d[t] = c + phi*d[t-1],
// integrated back onto the level of the series
type DiffARModel struct {
	Intercept float64
	Phi       float64

	times  []time.Time
	values []float64
	step   time.Duration
}

// FitDiffARModel fits the model by least squares on the lagged differences.
// times must be sorted and the same length as values.
func FitDiffARModel(times []time.Time, values []float64, minPoints int) (*DiffARModel, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("times and values differ in length: %d != %d", len(times), len(values))
	}
	if len(values) < minPoints || len(values) < 3 {
		return nil, fmt.Errorf("%d points: %w", len(values), ErrTooFewPoints)
	}

	diffs := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs[i-1] = values[i] - values[i-1]
	}
	x := diffs[:len(diffs)-1]
	y := diffs[1:]

	m := &DiffARModel{
		times:  times,
		values: values,
		step:   inferStep(times),
	}

	if len(x) < 2 || stat.Variance(x, nil) == 0 {
		// constant lagged differences: the best predictor is their mean
		m.Intercept = stat.Mean(y, nil)
		return m, nil
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return nil, fmt.Errorf("least squares fit did not converge")
	}
	m.Intercept = alpha
	m.Phi = beta
	return m, nil
}

// Step is the spacing between forecast points
func (m *DiffARModel) Step() time.Duration {
	return m.step
}

// LastTime is the timestamp of the last observation
func (m *DiffARModel) LastTime() time.Time {
	return m.times[len(m.times)-1]
}

// Forecast returns the next steps values after the last observation
func (m *DiffARModel) Forecast(steps int) []float64 {
	out := make([]float64, 0, steps)
	n := len(m.values)
	level := m.values[n-1]
	prevDiff := m.values[n-1] - m.values[n-2]
	for i := 0; i < steps; i++ {
		d := m.Intercept + m.Phi*prevDiff
		level += d
		prevDiff = d
		out = append(out, level)
	}
	return out
}

// PredictAt returns the last observed value at or before ts for past times,
// and the forecast ceil((ts-last)/step) steps ahead for future times. ok is
// false when ts is before the first observation.
func (m *DiffARModel) PredictAt(ts time.Time) (float64, bool) {
	last := m.LastTime()
	if !ts.After(last) {
		idx := sort.Search(len(m.times), func(i int) bool { return m.times[i].After(ts) })
		if idx == 0 {
			return math.NaN(), false
		}
		return m.values[idx-1], true
	}

	steps := int(math.Ceil(float64(ts.Sub(last)) / float64(m.step)))
	if steps <= 0 {
		return m.values[len(m.values)-1], true
	}
	forecast := m.Forecast(steps)
	return forecast[len(forecast)-1], true
}

func inferStep(times []time.Time) time.Duration {
	if len(times) < 2 {
		return DefaultForecastStep
	}
	step := times[1].Sub(times[0])
	if step <= 0 {
		return DefaultForecastStep
	}
	return step
}

// ForecastOptions controls the forecasting consumer
type ForecastOptions struct {
	Steps     int
	MinPoints int
	Features  []string
}

func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		Steps:     10,
		MinPoints: 20,
		Features:  ForecastFeatures,
	}
}

type seriesKey struct {
	tankID  int
	feature string
}

// Forecaster fits one model per (tank, feature) of a main table. A failing
// pair is logged and skipped; it never aborts the run.
type Forecaster struct {
	opts   ForecastOptions
	logger *zap.Logger
	models map[seriesKey]*DiffARModel
	tanks  []int
}

func NewForecaster(opts ForecastOptions, logger *zap.Logger) *Forecaster {
	if len(opts.Features) == 0 {
		opts.Features = ForecastFeatures
	}
	return &Forecaster{
		opts:   opts,
		logger: logger,
		models: make(map[seriesKey]*DiffARModel),
	}
}

// Fit sorts the table by timestamp, groups it by tank and fits every
// configured feature. It fails only when the Timestamp or Tank_ID columns
// are missing or unparsable.
func (f *Forecaster) Fit(t *Table) ([]models.ForecastPoint, error) {
	groups, err := groupByTank(t)
	if err != nil {
		return nil, err
	}

	f.tanks = f.tanks[:0]
	for tankID := range groups {
		f.tanks = append(f.tanks, tankID)
	}
	slices.Sort(f.tanks)

	var points []models.ForecastPoint
	for _, tankID := range f.tanks {
		rows := groups[tankID]
		for _, feature := range f.opts.Features {
			model, err := f.fitSeries(t, rows, feature)
			if err != nil {
				f.logger.Warn("Skipping forecast",
					zap.Int("tank_id", tankID),
					zap.String("feature", feature),
					zap.Error(err))
				continue
			}
			f.models[seriesKey{tankID, feature}] = model

			last := model.LastTime()
			for i, v := range model.Forecast(f.opts.Steps) {
				points = append(points, models.ForecastPoint{
					TankID:  tankID,
					Feature: feature,
					Time:    last.Add(time.Duration(i+1) * model.Step()),
					Value:   v,
				})
			}
			f.logger.Info("Fitted forecast model",
				zap.Int("tank_id", tankID),
				zap.String("feature", feature),
				zap.Float64("intercept", model.Intercept),
				zap.Float64("phi", model.Phi),
				zap.Duration("step", model.Step()))
		}
	}
	return points, nil
}

// Model returns the fitted model of a pair, if it was fitted
func (f *Forecaster) Model(tankID int, feature string) (*DiffARModel, bool) {
	m, ok := f.models[seriesKey{tankID, feature}]
	return m, ok
}

// TankIDs returns the tanks seen by the last Fit, ascending
func (f *Forecaster) TankIDs() []int {
	return append([]int(nil), f.tanks...)
}

// Features returns the configured features in output order
func (f *Forecaster) Features() []string {
	return f.opts.Features
}

// PredictAt looks up or forecasts a pair at ts; ok is false when the pair has
// no model or ts predates it
func (f *Forecaster) PredictAt(tankID int, feature string, ts time.Time) (float64, bool) {
	m, ok := f.Model(tankID, feature)
	if !ok {
		return math.NaN(), false
	}
	return m.PredictAt(ts)
}

type timedRow struct {
	index int
	ts    time.Time
}

func groupByTank(t *Table) (map[int][]timedRow, error) {
	if t.Index(models.ColTimestamp) < 0 {
		return nil, fmt.Errorf("missing column %s", models.ColTimestamp)
	}
	if t.Index(models.ColTankID) < 0 {
		return nil, fmt.Errorf("missing column %s", models.ColTankID)
	}

	groups := make(map[int][]timedRow)
	for i := range t.Rows {
		raw := strings.TrimSpace(t.Cell(i, models.ColTimestamp))
		ts, err := time.ParseInLocation(models.TimestampLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", i+2, raw, err)
		}
		tankID, err := strconv.Atoi(strings.TrimSpace(t.Cell(i, models.ColTankID)))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid tank id: %w", i+2, err)
		}
		groups[tankID] = append(groups[tankID], timedRow{index: i, ts: ts})
	}
	for _, rows := range groups {
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].ts.Before(rows[b].ts) })
	}
	return groups, nil
}

func (f *Forecaster) fitSeries(t *Table, rows []timedRow, feature string) (*DiffARModel, error) {
	if t.Index(feature) < 0 {
		return nil, fmt.Errorf("feature %s not found", feature)
	}

	var cells []string
	var times []time.Time
	for _, r := range rows {
		cell := strings.TrimSpace(t.Cell(r.index, feature))
		if cell == "" {
			continue
		}
		cells = append(cells, cell)
		times = append(times, r.ts)
	}
	if len(cells) < f.opts.MinPoints {
		return nil, fmt.Errorf("%d points, need %d: %w", len(cells), f.opts.MinPoints, ErrTooFewPoints)
	}

	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", cell, ErrNonNumericSeries)
		}
		values[i] = v
	}

	return FitDiffARModel(times, values, f.opts.MinPoints)
}

// WriteForecastCSV writes the forecast points with ForecastCSVColumns
func WriteForecastCSV(path string, points []models.ForecastPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(ForecastCSVColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range points {
		record := []string{
			strconv.Itoa(p.TankID),
			p.Feature,
			p.Time.Format(ForecastTimeLayout),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write forecast row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}
