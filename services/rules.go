package services

import (
	"math/rand/v2"

	"hatchery/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// LabelRuleEngine derives the five classification labels of a reading
type LabelRuleEngine struct {
	rules models.RuleSet
}

func NewLabelRuleEngine(rules models.RuleSet) *LabelRuleEngine {
	return &LabelRuleEngine{
		rules: rules,
	}
}

// Rules returns the constants the engine was built with
func (e *LabelRuleEngine) Rules() models.RuleSet {
	return e.rules
}

// Label computes the labels of a clipped, unrounded reading. Leakage runs
// first and may replace the soil moisture value; the returned reading carries
// that replacement and the input is left untouched. src is drawn from only
// when soil moisture is in the near-miss zone or leakage fires.
func (e *LabelRuleEngine) Label(reading models.SensorReading, src rand.Source) (models.SensorReading, models.DerivedLabels) {
	var labels models.DerivedLabels

	leaking, soilMoisture := e.DetectLeakage(reading.SoilMoisture, src)
	if leaking {
		labels.TankLeakage = 1
	}
	reading.SoilMoisture = soilMoisture

	labels.TemperatureStatus = e.TemperatureStatus(reading.Temperature)
	labels.QualityScore, labels.WaterQualityIndex = e.WaterQuality(reading)
	labels.DOStatus = e.DOStatus(reading.DissolvedOxygen)
	labels.GrowthScore, labels.GrowthCondition = e.GrowthCondition(
		labels.TemperatureStatus,
		labels.DOStatus,
		labels.WaterQualityIndex,
		reading.Turbidity,
	)

	return reading, labels
}

// DetectLeakage reports whether the tank is leaking and the soil moisture to
// store. Above the hard limit leakage always fires; above the near-miss limit
// it fires when a uniform draw falls below the near-miss probability. A
// leaking tank gets a fresh uniform draw from the leaking range. With a nil
// src only the hard limit applies and the value is kept.
func (e *LabelRuleEngine) DetectLeakage(soilMoisture float64, src rand.Source) (bool, float64) {
	r := e.rules

	leaking := soilMoisture > r.LeakageHardLimit
	if !leaking && soilMoisture > r.LeakageNearMissLimit && src != nil {
		leaking = rand.New(src).Float64() < r.LeakageNearMissProbability
	}
	if !leaking {
		return false, soilMoisture
	}
	if src == nil {
		return true, soilMoisture
	}

	redraw := distuv.Uniform{
		Min: r.LeakingSoilMoisture.Min,
		Max: r.LeakingSoilMoisture.Max,
		Src: src,
	}
	return true, redraw.Rand()
}

func (e *LabelRuleEngine) TemperatureStatus(temperature float64) models.Status {
	return e.rules.Thresholds[models.ParamTemperature].Classify(temperature)
}

func (e *LabelRuleEngine) DOStatus(dissolvedOxygen float64) models.Status {
	return e.rules.Thresholds[models.ParamDissolvedOxygen].Classify(dissolvedOxygen)
}

// WaterQuality scores the quality factors and buckets the sum
func (e *LabelRuleEngine) WaterQuality(reading models.SensorReading) (int, models.Grade) {
	score := 0
	for _, f := range e.rules.QualityFactors {
		levels := e.rules.Thresholds[f.Parameter]
		v := parameterValue(reading, f.Parameter)

		if f.UpperBoundOnly {
			switch {
			case v <= levels.Optimal.Max:
				score += f.OptimalPoints
			case v <= levels.Acceptable.Max:
				score += f.AcceptablePoints
			}
			continue
		}

		switch levels.Classify(v) {
		case models.StatusOptimal:
			score += f.OptimalPoints
		case models.StatusAcceptable:
			score += f.AcceptablePoints
		}
	}
	return score, e.rules.QualityScale.Grade(score)
}

// GrowthCondition combines the already computed statuses and quality grade
// with a turbidity bonus
func (e *LabelRuleEngine) GrowthCondition(temperature, dissolvedOxygen models.Status, quality models.Grade, turbidity float64) (int, models.Grade) {
	r := e.rules

	score := r.GrowthStatusPoints[temperature] + r.GrowthStatusPoints[dissolvedOxygen] + r.GrowthQualityPoints[quality]
	if r.Thresholds[models.ParamTurbidity].Optimal.Contains(turbidity) {
		score += r.GrowthTurbidityBonus
	}
	return score, r.GrowthScale.Grade(score)
}

func parameterValue(r models.SensorReading, p models.Parameter) float64 {
	switch p {
	case models.ParamTemperature:
		return r.Temperature
	case models.ParamDissolvedOxygen:
		return r.DissolvedOxygen
	case models.ParamPH:
		return r.PH
	case models.ParamAmmonia:
		return r.Ammonia
	case models.ParamNitrate:
		return r.Nitrate
	case models.ParamTurbidity:
		return r.Turbidity
	case models.ParamAlkalinity:
		return r.Alkalinity
	case models.ParamHardness:
		return r.Hardness
	default:
		return 0
	}
}
