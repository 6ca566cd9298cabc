package services

import (
	"maps"
	"slices"
	"strconv"

	"hatchery/models"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FeatureStats describes one numeric column
type FeatureStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary is the post-generation report: species counts, label
// distributions and statistics of the main water parameters
type Summary struct {
	Rows    int                       `json:"rows"`
	Species map[string]int            `json:"species"`
	Labels  map[string]map[string]int `json:"labels"`
	Stats   []FeatureStats            `json:"stats"`
}

// SummaryLabelColumns are the label columns counted by Summarize, in report order
var SummaryLabelColumns = []string{
	models.ColTankLeakage,
	models.ColTemperatureStatus,
	models.ColWaterQualityIndex,
	models.ColDOStatus,
	models.ColGrowthCondition,
}

// SummaryStatColumns are the numeric columns described by Summarize
var SummaryStatColumns = []string{
	models.ColTemperature,
	models.ColDissolvedOxygen,
	models.ColPH,
	models.ColAmmonia,
	models.ColNitrate,
	models.ColTurbidity,
}

func Summarize(rows []models.DatasetRow) Summary {
	s := Summary{
		Rows:    len(rows),
		Species: make(map[string]int),
		Labels:  make(map[string]map[string]int, len(SummaryLabelColumns)),
	}
	for _, col := range SummaryLabelColumns {
		s.Labels[col] = make(map[string]int)
	}

	columns := make(map[string][]float64, len(SummaryStatColumns))
	for _, row := range rows {
		s.Species[row.Species]++

		s.Labels[models.ColTankLeakage][strconv.Itoa(row.Labels.TankLeakage)]++
		s.Labels[models.ColTemperatureStatus][string(row.Labels.TemperatureStatus)]++
		s.Labels[models.ColWaterQualityIndex][string(row.Labels.WaterQualityIndex)]++
		s.Labels[models.ColDOStatus][string(row.Labels.DOStatus)]++
		s.Labels[models.ColGrowthCondition][string(row.Labels.GrowthCondition)]++

		r := row.Reading
		columns[models.ColTemperature] = append(columns[models.ColTemperature], r.Temperature)
		columns[models.ColDissolvedOxygen] = append(columns[models.ColDissolvedOxygen], r.DissolvedOxygen)
		columns[models.ColPH] = append(columns[models.ColPH], r.PH)
		columns[models.ColAmmonia] = append(columns[models.ColAmmonia], r.Ammonia)
		columns[models.ColNitrate] = append(columns[models.ColNitrate], r.Nitrate)
		columns[models.ColTurbidity] = append(columns[models.ColTurbidity], r.Turbidity)
	}

	for _, col := range SummaryStatColumns {
		values := columns[col]
		if len(values) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(values, nil)
		s.Stats = append(s.Stats, FeatureStats{
			Column: col,
			Count:  len(values),
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(values),
			Max:    floats.Max(values),
		})
	}

	return s
}

// Log writes the summary as structured log lines
func (s Summary) Log(logger *zap.Logger) {
	logger.Info("Species distribution", zap.Int("rows", s.Rows), zap.Any("species", s.Species))
	for _, col := range SummaryLabelColumns {
		logger.Info("Label distribution", zap.String("label", col), zap.Any("counts", s.Labels[col]))
	}
	for _, fs := range s.Stats {
		logger.Info("Parameter statistics",
			zap.String("column", fs.Column),
			zap.Int("count", fs.Count),
			zap.Float64("mean", fs.Mean),
			zap.Float64("std", fs.StdDev),
			zap.Float64("min", fs.Min),
			zap.Float64("max", fs.Max))
	}
}

// sortedKeys returns the keys of a count map in a stable order
func sortedKeys(m map[string]int) []string {
	return slices.Sorted(maps.Keys(m))
}
