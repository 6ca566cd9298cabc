package models

// Range is an inclusive [Min, Max] interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the range, both ends included
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clip clamps v into the range
func (r Range) Clip(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Parameter names a water-quality parameter in the threshold table
type Parameter string

const (
	ParamTemperature     Parameter = "temperature"
	ParamDissolvedOxygen Parameter = "dissolved_oxygen"
	ParamPH              Parameter = "ph"
	ParamAmmonia         Parameter = "ammonia"
	ParamNitrate         Parameter = "nitrate"
	ParamTurbidity       Parameter = "turbidity"
	ParamAlkalinity      Parameter = "alkalinity"
	ParamHardness        Parameter = "hardness"
)

// Status is the three-way classification used for temperature and dissolved oxygen
type Status string

const (
	StatusOptimal    Status = "Optimal"
	StatusAcceptable Status = "Acceptable"
	StatusCritical   Status = "Critical"
)

// ThresholdLevels holds the three nested ranges of one parameter
type ThresholdLevels struct {
	Optimal    Range `json:"optimal"`
	Acceptable Range `json:"acceptable"`
	Critical   Range `json:"critical"`
}

// Classify checks optimal first, then acceptable; everything else is critical
func (l ThresholdLevels) Classify(v float64) Status {
	if l.Optimal.Contains(v) {
		return StatusOptimal
	}
	if l.Acceptable.Contains(v) {
		return StatusAcceptable
	}
	return StatusCritical
}

// ThresholdTable maps each parameter to its optimal/acceptable/critical ranges
type ThresholdTable map[Parameter]ThresholdLevels

// DefaultThresholds returns the reference ranges for Indian major carps
func DefaultThresholds() ThresholdTable {
	return ThresholdTable{
		ParamTemperature: {
			Optimal:    Range{26, 30},
			Acceptable: Range{24, 32},
			Critical:   Range{22, 35},
		},
		ParamDissolvedOxygen: {
			Optimal:    Range{5, 8},
			Acceptable: Range{4, 9},
			Critical:   Range{3, 12},
		},
		ParamPH: {
			Optimal:    Range{7.0, 8.5},
			Acceptable: Range{6.5, 9.0},
			Critical:   Range{6.0, 9.5},
		},
		ParamAmmonia: {
			Optimal:    Range{0, 0.1},
			Acceptable: Range{0, 0.5},
			Critical:   Range{0, 1.0},
		},
		ParamNitrate: {
			Optimal:    Range{0, 10},
			Acceptable: Range{0, 25},
			Critical:   Range{0, 40},
		},
		ParamTurbidity: {
			Optimal:    Range{15, 40},
			Acceptable: Range{10, 60},
			Critical:   Range{5, 80},
		},
		ParamAlkalinity: {
			Optimal:    Range{80, 120},
			Acceptable: Range{60, 150},
			Critical:   Range{40, 200},
		},
		ParamHardness: {
			Optimal:    Range{75, 150},
			Acceptable: Range{50, 200},
			Critical:   Range{30, 250},
		},
	}
}
