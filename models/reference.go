package models

// ThresholdDescription is one row of the Parameter_Thresholds sheet
type ThresholdDescription struct {
	Parameter       string `json:"parameter"`
	ThresholdRanges string `json:"threshold_ranges"`
	SpeciesNotes    string `json:"species_notes"`
}

// ThresholdDescriptionColumns are the Parameter_Thresholds sheet headers
var ThresholdDescriptionColumns = []string{"Parameter", "Threshold_Ranges", "Species_Notes"}

const speciesNote = "Applicable to Rohu, Catla, and Mrigal with minor species-specific variations"

// ThresholdDescriptions returns the human-readable threshold reference table
func ThresholdDescriptions() []ThresholdDescription {
	params := [][2]string{
		{"Temperature (°C)", "Optimal: 26-30°C, Acceptable: 24-32°C, Critical: <24 or >32°C"},
		{"Dissolved Oxygen (mg/L)", "Optimal: 5-8 mg/L, Acceptable: 4-9 mg/L, Critical: <4 or >9 mg/L"},
		{"pH", "Optimal: 7.0-8.5, Acceptable: 6.5-9.0, Critical: <6.5 or >9.0"},
		{"Ammonia (mg/L)", "Optimal: 0-0.1 mg/L, Acceptable: 0-0.5 mg/L, Critical: >0.5 mg/L"},
		{"Nitrate (mg/L)", "Optimal: 0-10 mg/L, Acceptable: 0-25 mg/L, Critical: >25 mg/L"},
		{"Turbidity (NTU)", "Optimal: 15-40 NTU, Acceptable: 10-60 NTU, Critical: <10 or >60 NTU"},
		{"Alkalinity (mg/L)", "Optimal: 80-120 mg/L, Acceptable: 60-150 mg/L, Critical: <60 or >150 mg/L"},
		{"Hardness (mg/L)", "Optimal: 75-150 mg/L, Acceptable: 50-200 mg/L, Critical: <50 or >200 mg/L"},
	}

	out := make([]ThresholdDescription, 0, len(params))
	for _, p := range params {
		out = append(out, ThresholdDescription{
			Parameter:       p[0],
			ThresholdRanges: p[1],
			SpeciesNotes:    speciesNote,
		})
	}
	return out
}

// Values returns the description's cells in ThresholdDescriptionColumns order
func (d ThresholdDescription) Values() []interface{} {
	return []interface{}{d.Parameter, d.ThresholdRanges, d.SpeciesNotes}
}

// SpeciesInfo is one row of the Species_Information sheet
type SpeciesInfo struct {
	TankID               int    `json:"tank_id"`
	Species              string `json:"species"`
	FeedingHabit         string `json:"feeding_habit"`
	PreferredTemperature string `json:"preferred_temperature"`
	GrowthRate           string `json:"growth_rate"`
	SpecialRequirements  string `json:"special_requirements"`
}

// SpeciesInfoColumns are the Species_Information sheet headers
var SpeciesInfoColumns = []string{
	"Tank_ID",
	"Species",
	"Feeding_Habit",
	"Preferred_Temperature",
	"Growth_Rate",
	"Special_Requirements",
}

// SpeciesInformation builds the species metadata table from the profiles
func SpeciesInformation() []SpeciesInfo {
	out := make([]SpeciesInfo, 0, len(speciesProfiles))
	for _, p := range speciesProfiles {
		out = append(out, SpeciesInfo{
			TankID:               p.TankID,
			Species:              p.DisplayName(),
			FeedingHabit:         p.FeedingHabit,
			PreferredTemperature: p.PreferredTemperature,
			GrowthRate:           p.GrowthRate,
			SpecialRequirements:  p.SpecialRequirements,
		})
	}
	return out
}

func (s SpeciesInfo) Values() []interface{} {
	return []interface{}{s.TankID, s.Species, s.FeedingHabit, s.PreferredTemperature, s.GrowthRate, s.SpecialRequirements}
}
