package services

import (
	"testing"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labeledRow(reading models.SensorReading) *models.DatasetRow {
	engine := NewLabelRuleEngine(models.DefaultRuleSet())
	out, labels := engine.Label(reading, nil)
	return &models.DatasetRow{TankID: 1, Species: "Rohu", Reading: out, Labels: labels}
}

func TestDetectIssuesHealthyRow(t *testing.T) {
	d := NewIssueDetector(models.DefaultRuleSet())
	row := labeledRow(optimalReading())

	assert.Empty(t, d.DetectIssues(row))
	assert.False(t, d.IsAnomalous(row))
}

func TestDetectIssuesCriticalRow(t *testing.T) {
	d := NewIssueDetector(models.DefaultRuleSet())

	r := optimalReading()
	r.SoilMoisture = 4060
	r.Temperature = 34
	r.DissolvedOxygen = 3.2
	r.PH = 6.1
	r.Ammonia = 0.8
	r.Nitrate = 30
	r.Turbidity = 70
	row := labeledRow(r)

	issues := d.DetectIssues(row)
	require.Len(t, issues, 5)

	types := make([]models.IssueType, len(issues))
	for i, issue := range issues {
		types[i] = issue.Type
		assert.Equal(t, 1, issue.TankID)
	}
	assert.Equal(t, []models.IssueType{
		models.TankLeaking,
		models.TemperatureCritical,
		models.OxygenCritical,
		models.WaterQualityPoor,
		models.GrowthConditionPoor,
	}, types)
	assert.Equal(t, 4060.0, issues[0].Value)
	assert.Contains(t, issues[1].Description, "24-32")
	assert.True(t, d.IsAnomalous(row))
}

func TestDetectIssuesAcceptableIsNotAnIssue(t *testing.T) {
	d := NewIssueDetector(models.DefaultRuleSet())

	r := optimalReading()
	r.Temperature = 31
	r.DissolvedOxygen = 8.5
	assert.Empty(t, d.DetectIssues(labeledRow(r)))
}
