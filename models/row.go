package models

import (
	"strconv"
	"time"
)

// TimestampLayout is the day-first text format of the Timestamp column
const TimestampLayout = "02-01-2006 15:04"

// Main dataset column names. Downstream consumers select columns by these names.
const (
	ColTimestamp         = "Timestamp"
	ColEntryID           = "Entry_ID"
	ColTankID            = "Tank_ID"
	ColCarpSpecies       = "Carp_Species"
	ColTemperature       = "Temperature_C"
	ColDissolvedOxygen   = "Dissolved_Oxygen_mgL"
	ColPH                = "pH"
	ColAmmonia           = "Ammonia_mgL"
	ColNitrate           = "Nitrate_mgL"
	ColTurbidity         = "Turbidity_NTU"
	ColAlkalinity        = "Alkalinity_mgL"
	ColHardness          = "Hardness_mgL"
	ColSoilMoisture      = "Soil_Moisture"
	ColWaterFlow         = "Water_Flow_Lmin"
	ColFeedingFrequency  = "Feeding_Frequency"
	ColTankLeakage       = "Tank_Leakage"
	ColTemperatureStatus = "Temperature_Status"
	ColWaterQualityIndex = "Water_Quality_Index"
	ColDOStatus          = "DO_Status"
	ColGrowthCondition   = "Growth_Condition"
)

// MainDatasetColumns lists the main table columns in output order
var MainDatasetColumns = []string{
	ColTimestamp,
	ColEntryID,
	ColTankID,
	ColCarpSpecies,
	ColTemperature,
	ColDissolvedOxygen,
	ColPH,
	ColAmmonia,
	ColNitrate,
	ColTurbidity,
	ColAlkalinity,
	ColHardness,
	ColSoilMoisture,
	ColWaterFlow,
	ColFeedingFrequency,
	ColTankLeakage,
	ColTemperatureStatus,
	ColWaterQualityIndex,
	ColDOStatus,
	ColGrowthCondition,
}

// DerivedLabels are the five classification targets computed from a reading
type DerivedLabels struct {
	TankLeakage       int    `json:"tank_leakage"`
	TemperatureStatus Status `json:"temperature_status"`
	WaterQualityIndex Grade  `json:"water_quality_index"`
	DOStatus          Status `json:"do_status"`
	GrowthCondition   Grade  `json:"growth_condition"`

	QualityScore int `json:"quality_score"`
	GrowthScore  int `json:"growth_score"`
}

// DatasetRow is one (timestamp, tank) record of the generated table
type DatasetRow struct {
	EntryID   int       `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
	TankID    int       `json:"tank_id"`
	Species   string    `json:"species"`

	Reading SensorReading `json:"reading"`
	Labels  DerivedLabels `json:"labels"`
}

// Values returns the row's cells in MainDatasetColumns order
func (r DatasetRow) Values() []interface{} {
	return []interface{}{
		r.Timestamp.Format(TimestampLayout),
		r.EntryID,
		r.TankID,
		r.Species,
		r.Reading.Temperature,
		r.Reading.DissolvedOxygen,
		r.Reading.PH,
		r.Reading.Ammonia,
		r.Reading.Nitrate,
		r.Reading.Turbidity,
		r.Reading.Alkalinity,
		r.Reading.Hardness,
		int(r.Reading.SoilMoisture),
		r.Reading.WaterFlow,
		r.Reading.FeedingFrequency,
		r.Labels.TankLeakage,
		string(r.Labels.TemperatureStatus),
		string(r.Labels.WaterQualityIndex),
		string(r.Labels.DOStatus),
		string(r.Labels.GrowthCondition),
	}
}

// Strings returns the row's cells as text, numbers in their shortest form
func (r DatasetRow) Strings() []string {
	values := r.Values()
	out := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case string:
			out[i] = x
		case int:
			out[i] = strconv.Itoa(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
	}
	return out
}
