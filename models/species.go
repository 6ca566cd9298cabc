package models

// SpeciesProfile describes the carp species reared in one tank and the base
// values its readings are sampled around
type SpeciesProfile struct {
	TankID         int    `json:"tank_id"`
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name"`
	FeedingHabit   string `json:"feeding_habit"`

	TemperatureBase     float64 `json:"temperature_base"`
	DissolvedOxygenBase float64 `json:"dissolved_oxygen_base"`
	PHBase              float64 `json:"ph_base"`
	TurbidityBase       float64 `json:"turbidity_base"`

	PreferredTemperature string `json:"preferred_temperature"`
	GrowthRate           string `json:"growth_rate"`
	SpecialRequirements  string `json:"special_requirements"`
}

// DisplayName returns "Rohu (Labeo rohita)" style names
func (s SpeciesProfile) DisplayName() string {
	return s.Name + " (" + s.ScientificName + ")"
}

var speciesProfiles = []SpeciesProfile{
	{
		TankID:               1,
		Name:                 "Rohu",
		ScientificName:       "Labeo rohita",
		FeedingHabit:         "Column feeder",
		TemperatureBase:      28.0,
		DissolvedOxygenBase:  6.5,
		PHBase:               7.8,
		TurbidityBase:        25,
		PreferredTemperature: "27-29°C",
		GrowthRate:           "Fast",
		SpecialRequirements:  "Prefers slightly higher temperature, good water circulation",
	},
	{
		TankID:               2,
		Name:                 "Catla",
		ScientificName:       "Catla catla",
		FeedingHabit:         "Surface feeder",
		TemperatureBase:      27.5,
		DissolvedOxygenBase:  7.0,
		PHBase:               7.5,
		TurbidityBase:        30,
		PreferredTemperature: "26-28°C",
		GrowthRate:           "Very Fast",
		SpecialRequirements:  "Requires high dissolved oxygen, surface feeding space",
	},
	{
		TankID:               3,
		Name:                 "Mrigal",
		ScientificName:       "Cirrhinus mrigala",
		FeedingHabit:         "Bottom feeder",
		TemperatureBase:      27.0,
		DissolvedOxygenBase:  6.0,
		PHBase:               7.3,
		TurbidityBase:        35,
		PreferredTemperature: "25-28°C",
		GrowthRate:           "Moderate",
		SpecialRequirements:  "Tolerates higher turbidity, bottom substrate important",
	},
}

// SpeciesForTank looks up the profile of a tank
func SpeciesForTank(tankID int) (SpeciesProfile, bool) {
	for _, p := range speciesProfiles {
		if p.TankID == tankID {
			return p, true
		}
	}
	return SpeciesProfile{}, false
}

// SpeciesProfiles returns all profiles ordered by tank id
func SpeciesProfiles() []SpeciesProfile {
	out := make([]SpeciesProfile, len(speciesProfiles))
	copy(out, speciesProfiles)
	return out
}

// TankIDs returns the tank ids in generation order
func TankIDs() []int {
	ids := make([]int, 0, len(speciesProfiles))
	for _, p := range speciesProfiles {
		ids = append(ids, p.TankID)
	}
	return ids
}
