package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdDescriptions(t *testing.T) {
	rows := ThresholdDescriptions()
	require.Len(t, rows, 8)

	assert.Equal(t, "Temperature (°C)", rows[0].Parameter)
	assert.Equal(t, "Hardness (mg/L)", rows[7].Parameter)
	for _, r := range rows {
		assert.Len(t, r.Values(), len(ThresholdDescriptionColumns))
		assert.Contains(t, r.SpeciesNotes, "Rohu, Catla, and Mrigal")
	}
}

func TestSpeciesInformation(t *testing.T) {
	rows := SpeciesInformation()
	require.Len(t, rows, 3)

	assert.Equal(t, "Rohu (Labeo rohita)", rows[0].Species)
	assert.Equal(t, "Catla (Catla catla)", rows[1].Species)
	assert.Equal(t, "Mrigal (Cirrhinus mrigala)", rows[2].Species)
	assert.Equal(t, "Surface feeder", rows[1].FeedingHabit)
	assert.Len(t, rows[0].Values(), len(SpeciesInfoColumns))
}

func TestSpeciesForTank(t *testing.T) {
	p, ok := SpeciesForTank(2)
	require.True(t, ok)
	assert.Equal(t, "Catla", p.Name)
	assert.Equal(t, 7.0, p.DissolvedOxygenBase)

	_, ok = SpeciesForTank(4)
	assert.False(t, ok)

	assert.Equal(t, []int{1, 2, 3}, TankIDs())
}
