package models

import (
	"fmt"
	"math"
)

// SensorReading represents the raw values sampled for one tank at one timestamp
type SensorReading struct {
	Temperature      float64 `json:"temperature"`
	DissolvedOxygen  float64 `json:"dissolved_oxygen"`
	PH               float64 `json:"ph"`
	Ammonia          float64 `json:"ammonia"`
	Nitrate          float64 `json:"nitrate"`
	Turbidity        float64 `json:"turbidity"`
	Alkalinity       float64 `json:"alkalinity"`
	Hardness         float64 `json:"hardness"`
	SoilMoisture     float64 `json:"soil_moisture"`
	WaterFlow        float64 `json:"water_flow"`
	FeedingFrequency int     `json:"feeding_frequency"`
}

// Rounded applies the storage precision: one decimal for most parameters,
// three for ammonia, and soil moisture truncated to an integer
func (r SensorReading) Rounded() SensorReading {
	return SensorReading{
		Temperature:      roundTo(r.Temperature, 1),
		DissolvedOxygen:  roundTo(r.DissolvedOxygen, 1),
		PH:               roundTo(r.PH, 1),
		Ammonia:          roundTo(r.Ammonia, 3),
		Nitrate:          roundTo(r.Nitrate, 1),
		Turbidity:        roundTo(r.Turbidity, 1),
		Alkalinity:       roundTo(r.Alkalinity, 1),
		Hardness:         roundTo(r.Hardness, 1),
		SoilMoisture:     math.Trunc(r.SoilMoisture),
		WaterFlow:        roundTo(r.WaterFlow, 1),
		FeedingFrequency: r.FeedingFrequency,
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// ReadingBounds are the instrument-feasible limits every reading is clipped to
type ReadingBounds struct {
	Temperature     Range
	DissolvedOxygen Range
	PH              Range
	Ammonia         Range
	Nitrate         Range
	Turbidity       Range
	Alkalinity      Range
	Hardness        Range
	SoilMoisture    Range
	WaterFlow       Range
	FeedingMin      int
	FeedingMax      int
}

// DefaultReadingBounds returns the physical limits of the simulated probes
func DefaultReadingBounds() ReadingBounds {
	return ReadingBounds{
		Temperature:     Range{22, 35},
		DissolvedOxygen: Range{3, 12},
		PH:              Range{6.0, 9.5},
		Ammonia:         Range{0, 1.0},
		Nitrate:         Range{0, 40},
		Turbidity:       Range{5, 80},
		Alkalinity:      Range{40, 200},
		Hardness:        Range{30, 250},
		SoilMoisture:    Range{3500, 4100},
		WaterFlow:       Range{100, 200},
		FeedingMin:      2,
		FeedingMax:      4,
	}
}

// Violations lists every field of r outside its bound
func (b ReadingBounds) Violations(r SensorReading) []string {
	var out []string
	check := func(name string, rng Range, v float64) {
		if !rng.Contains(v) {
			out = append(out, fmt.Sprintf("%s=%v outside [%v, %v]", name, v, rng.Min, rng.Max))
		}
	}
	check("temperature", b.Temperature, r.Temperature)
	check("dissolved_oxygen", b.DissolvedOxygen, r.DissolvedOxygen)
	check("ph", b.PH, r.PH)
	check("ammonia", b.Ammonia, r.Ammonia)
	check("nitrate", b.Nitrate, r.Nitrate)
	check("turbidity", b.Turbidity, r.Turbidity)
	check("alkalinity", b.Alkalinity, r.Alkalinity)
	check("hardness", b.Hardness, r.Hardness)
	check("soil_moisture", b.SoilMoisture, r.SoilMoisture)
	check("water_flow", b.WaterFlow, r.WaterFlow)
	if r.FeedingFrequency < b.FeedingMin || r.FeedingFrequency > b.FeedingMax {
		out = append(out, fmt.Sprintf("feeding_frequency=%d outside [%d, %d]", r.FeedingFrequency, b.FeedingMin, b.FeedingMax))
	}
	return out
}

// IssueType represents the conditions the monitor raises alerts for
type IssueType string

const (
	TankLeaking         IssueType = "tank_leakage"
	TemperatureCritical IssueType = "temperature_critical"
	OxygenCritical      IssueType = "do_critical"
	WaterQualityPoor    IssueType = "water_quality_poor"
	GrowthConditionPoor IssueType = "growth_poor"
)

// Issue represents one alert-worthy condition of a labeled row
type Issue struct {
	Type        IssueType `json:"type"`
	TankID      int       `json:"tank_id"`
	Value       float64   `json:"value"`
	Description string    `json:"description"`
}

// GetIssueEmoji returns appropriate emoji for issue type
func (i *Issue) GetIssueEmoji() string {
	switch i.Type {
	case TankLeaking:
		return "💧"
	case TemperatureCritical:
		return "🌡️"
	case OxygenCritical:
		return "🫧"
	case WaterQualityPoor:
		return "🧪"
	case GrowthConditionPoor:
		return "🐟"
	default:
		return "⚠️"
	}
}

// GetSeverityColor returns the severity marker used in Telegram messages
func (i *Issue) GetSeverityColor() string {
	switch i.Type {
	case TankLeaking, OxygenCritical:
		return "🔴"
	case TemperatureCritical, WaterQualityPoor:
		return "🟡"
	default:
		return "⚪"
	}
}
