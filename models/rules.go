package models

// Grade is the four-way category used for water quality and growth condition
type Grade string

const (
	GradeExcellent Grade = "Excellent"
	GradeGood      Grade = "Good"
	GradeFair      Grade = "Fair"
	GradePoor      Grade = "Poor"
)

// GradeBucket assigns Grade to any score >= MinScore
type GradeBucket struct {
	MinScore int
	Grade    Grade
}

// GradeScale buckets a score. Buckets are checked in order, highest first;
// a score below every bucket gets Floor.
type GradeScale struct {
	Buckets []GradeBucket
	Floor   Grade
}

func (s GradeScale) Grade(score int) Grade {
	for _, b := range s.Buckets {
		if score >= b.MinScore {
			return b.Grade
		}
	}
	return s.Floor
}

// QualityFactor is one parameter's contribution to the water quality score.
// UpperBoundOnly parameters (ammonia, nitrate) are compared against the
// range maximum only.
type QualityFactor struct {
	Parameter        Parameter
	OptimalPoints    int
	AcceptablePoints int
	UpperBoundOnly   bool
}

// RuleSet carries every constant the label rule engine uses
type RuleSet struct {
	Thresholds ThresholdTable

	// Leakage fires above LeakageHardLimit, or above LeakageNearMissLimit
	// with probability LeakageNearMissProbability. A leaking tank's soil
	// moisture is redrawn uniformly from LeakingSoilMoisture.
	LeakageHardLimit           float64
	LeakageNearMissLimit       float64
	LeakageNearMissProbability float64
	LeakingSoilMoisture        Range

	QualityFactors []QualityFactor
	QualityScale   GradeScale

	GrowthStatusPoints   map[Status]int
	GrowthQualityPoints  map[Grade]int
	GrowthTurbidityBonus int
	GrowthScale          GradeScale
}

// DefaultRuleSet returns the reference labeling constants
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Thresholds: DefaultThresholds(),

		LeakageHardLimit:           4000,
		LeakageNearMissLimit:       3950,
		LeakageNearMissProbability: 0.25,
		LeakingSoilMoisture:        Range{4000, 4100},

		QualityFactors: []QualityFactor{
			{Parameter: ParamTemperature, OptimalPoints: 4, AcceptablePoints: 2},
			{Parameter: ParamDissolvedOxygen, OptimalPoints: 4, AcceptablePoints: 2},
			{Parameter: ParamPH, OptimalPoints: 3, AcceptablePoints: 1},
			{Parameter: ParamAmmonia, OptimalPoints: 3, AcceptablePoints: 1, UpperBoundOnly: true},
			{Parameter: ParamNitrate, OptimalPoints: 2, AcceptablePoints: 1, UpperBoundOnly: true},
		},
		QualityScale: GradeScale{
			Buckets: []GradeBucket{
				{MinScore: 14, Grade: GradeExcellent},
				{MinScore: 10, Grade: GradeGood},
				{MinScore: 6, Grade: GradeFair},
			},
			Floor: GradePoor,
		},

		GrowthStatusPoints: map[Status]int{
			StatusOptimal:    3,
			StatusAcceptable: 1,
			StatusCritical:   0,
		},
		GrowthQualityPoints: map[Grade]int{
			GradeExcellent: 2,
			GradeGood:      2,
			GradeFair:      1,
			GradePoor:      0,
		},
		GrowthTurbidityBonus: 1,
		GrowthScale: GradeScale{
			Buckets: []GradeBucket{
				{MinScore: 8, Grade: GradeExcellent},
				{MinScore: 6, Grade: GradeGood},
				{MinScore: 4, Grade: GradeFair},
			},
			Floor: GradePoor,
		},
	}
}
