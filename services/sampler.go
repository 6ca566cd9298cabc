package services

import (
	"math/rand/v2"

	"hatchery/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalParams is a mean and standard deviation pair
type NormalParams struct {
	Mean   float64
	StdDev float64
}

// SamplerConfig holds the distribution parameters of the simulated probes.
// Temperature, DO, pH and turbidity are centred on the species base values;
// the rest use fixed global parameters.
type SamplerConfig struct {
	TemperatureStdDev     float64
	DissolvedOxygenStdDev float64
	PHStdDev              float64
	TurbidityStdDev       float64

	AmmoniaMean float64
	NitrateMean float64

	Alkalinity   NormalParams
	Hardness     NormalParams
	SoilMoisture NormalParams
	WaterFlow    NormalParams

	FeedingFrequencies []int

	Bounds models.ReadingBounds
}

// DefaultSamplerConfig returns the reference distribution parameters
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		TemperatureStdDev:     1.5,
		DissolvedOxygenStdDev: 1.2,
		PHStdDev:              0.4,
		TurbidityStdDev:       8,

		AmmoniaMean: 0.12,
		NitrateMean: 6,

		Alkalinity:   NormalParams{Mean: 100, StdDev: 20},
		Hardness:     NormalParams{Mean: 110, StdDev: 25},
		SoilMoisture: NormalParams{Mean: 3800, StdDev: 120},
		WaterFlow:    NormalParams{Mean: 150, StdDev: 25},

		FeedingFrequencies: []int{2, 3, 4},

		Bounds: models.DefaultReadingBounds(),
	}
}

// ReadingSampler produces one clipped, unrounded reading for a tank
type ReadingSampler interface {
	Sample(profile models.SpeciesProfile) models.SensorReading
}

// ParameterSampler draws readings from the configured distributions on a
// shared random source
type ParameterSampler struct {
	cfg SamplerConfig
	src rand.Source
}

func NewParameterSampler(cfg SamplerConfig, src rand.Source) *ParameterSampler {
	return &ParameterSampler{
		cfg: cfg,
		src: src,
	}
}

// Sample draws every parameter in a fixed order and clips it to its bound.
// The order is part of the stream contract: a seed reproduces the same table.
func (s *ParameterSampler) Sample(profile models.SpeciesProfile) models.SensorReading {
	b := s.cfg.Bounds

	temperature := b.Temperature.Clip(s.normal(profile.TemperatureBase, s.cfg.TemperatureStdDev))
	dissolvedOxygen := b.DissolvedOxygen.Clip(s.normal(profile.DissolvedOxygenBase, s.cfg.DissolvedOxygenStdDev))
	ph := b.PH.Clip(s.normal(profile.PHBase, s.cfg.PHStdDev))
	ammonia := b.Ammonia.Clip(s.exponential(s.cfg.AmmoniaMean))
	nitrate := b.Nitrate.Clip(s.exponential(s.cfg.NitrateMean))
	turbidity := b.Turbidity.Clip(s.normal(profile.TurbidityBase, s.cfg.TurbidityStdDev))
	alkalinity := b.Alkalinity.Clip(s.normal(s.cfg.Alkalinity.Mean, s.cfg.Alkalinity.StdDev))
	hardness := b.Hardness.Clip(s.normal(s.cfg.Hardness.Mean, s.cfg.Hardness.StdDev))
	soilMoisture := b.SoilMoisture.Clip(s.normal(s.cfg.SoilMoisture.Mean, s.cfg.SoilMoisture.StdDev))
	waterFlow := b.WaterFlow.Clip(s.normal(s.cfg.WaterFlow.Mean, s.cfg.WaterFlow.StdDev))

	return models.SensorReading{
		Temperature:      temperature,
		DissolvedOxygen:  dissolvedOxygen,
		PH:               ph,
		Ammonia:          ammonia,
		Nitrate:          nitrate,
		Turbidity:        turbidity,
		Alkalinity:       alkalinity,
		Hardness:         hardness,
		SoilMoisture:     soilMoisture,
		WaterFlow:        waterFlow,
		FeedingFrequency: s.feedingFrequency(),
	}
}

func (s *ParameterSampler) normal(mean, stdDev float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: stdDev, Src: s.src}.Rand()
}

// exponential draws with the given mean (rate = 1/mean)
func (s *ParameterSampler) exponential(mean float64) float64 {
	return distuv.Exponential{Rate: 1 / mean, Src: s.src}.Rand()
}

func (s *ParameterSampler) feedingFrequency() int {
	choices := s.cfg.FeedingFrequencies
	if len(choices) == 0 {
		return s.cfg.Bounds.FeedingMin
	}
	return choices[rand.New(s.src).IntN(len(choices))]
}
