package services

import (
	"fmt"

	"hatchery/models"
)

// IssueDetector turns the labels of a row into alert-worthy issues
type IssueDetector struct {
	rules models.RuleSet
}

func NewIssueDetector(rules models.RuleSet) *IssueDetector {
	return &IssueDetector{
		rules: rules,
	}
}

// DetectIssues returns leakage, critical statuses and poor grades of a labeled row
func (d *IssueDetector) DetectIssues(row *models.DatasetRow) []*models.Issue {
	var issues []*models.Issue
	r := row.Reading
	lb := row.Labels

	if lb.TankLeakage == 1 {
		issues = append(issues, &models.Issue{
			Type:        models.TankLeaking,
			TankID:      row.TankID,
			Value:       r.SoilMoisture,
			Description: fmt.Sprintf("Soil moisture %.0f indicates a leak (limit %.0f)", r.SoilMoisture, d.rules.LeakageHardLimit),
		})
	}

	if lb.TemperatureStatus == models.StatusCritical {
		acceptable := d.rules.Thresholds[models.ParamTemperature].Acceptable
		issues = append(issues, &models.Issue{
			Type:        models.TemperatureCritical,
			TankID:      row.TankID,
			Value:       r.Temperature,
			Description: fmt.Sprintf("Temperature %.1f°C is outside %.0f-%.0f°C", r.Temperature, acceptable.Min, acceptable.Max),
		})
	}

	if lb.DOStatus == models.StatusCritical {
		acceptable := d.rules.Thresholds[models.ParamDissolvedOxygen].Acceptable
		issues = append(issues, &models.Issue{
			Type:        models.OxygenCritical,
			TankID:      row.TankID,
			Value:       r.DissolvedOxygen,
			Description: fmt.Sprintf("Dissolved oxygen %.1f mg/L is outside %.0f-%.0f mg/L", r.DissolvedOxygen, acceptable.Min, acceptable.Max),
		})
	}

	if lb.WaterQualityIndex == models.GradePoor {
		issues = append(issues, &models.Issue{
			Type:        models.WaterQualityPoor,
			TankID:      row.TankID,
			Value:       float64(lb.QualityScore),
			Description: fmt.Sprintf("Water quality score %d is Poor", lb.QualityScore),
		})
	}

	if lb.GrowthCondition == models.GradePoor {
		issues = append(issues, &models.Issue{
			Type:        models.GrowthConditionPoor,
			TankID:      row.TankID,
			Value:       float64(lb.GrowthScore),
			Description: fmt.Sprintf("Growth score %d is Poor", lb.GrowthScore),
		})
	}

	return issues
}

// IsAnomalous returns true if any issue is detected
func (d *IssueDetector) IsAnomalous(row *models.DatasetRow) bool {
	return len(d.DetectIssues(row)) > 0
}
