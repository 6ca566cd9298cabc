package main

import (
	"testing"
	"time"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatRow(t *testing.T) {
	row := &models.DatasetRow{
		TankID:    3,
		Species:   "Mrigal",
		Timestamp: time.Date(2025, time.June, 1, 6, 30, 0, 0, time.UTC),
		Reading:   models.SensorReading{Temperature: 27.2, DissolvedOxygen: 5.8, Ammonia: 0.071, SoilMoisture: 4012},
		Labels: models.DerivedLabels{
			TankLeakage:       1,
			TemperatureStatus: models.StatusOptimal,
			DOStatus:          models.StatusOptimal,
			WaterQualityIndex: models.GradeGood,
			GrowthCondition:   models.GradeFair,
		},
	}

	out := formatRow(row)
	assert.Contains(t, out, "Tank 3 (Mrigal) at 01-06-2025 06:30")
	assert.Contains(t, out, "Temperature: 27.2 C [Optimal]")
	assert.Contains(t, out, "Ammonia: 0.071 mg/L")
	assert.Contains(t, out, "Soil moisture: 4012  Leakage: 1")
	assert.Contains(t, out, "Water quality: Good  Growth: Fair")
}
