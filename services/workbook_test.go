package services

import (
	"path/filepath"
	"testing"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestWorkbookRoundTrip(t *testing.T) {
	ds, err := NewGenerator(smallOptions(20), zap.NewNop()).Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "carps.xlsx")
	require.NoError(t, WriteWorkbook(path, ds))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{SheetMainDataset, SheetThresholds, SheetSpecies}, f.GetSheetList())

	species, err := f.GetRows(SheetSpecies)
	require.NoError(t, err)
	require.Len(t, species, 4)
	assert.Equal(t, models.SpeciesInfoColumns, species[0])
	assert.Equal(t, "Rohu (Labeo rohita)", species[1][1])

	thresholds, err := f.GetRows(SheetThresholds)
	require.NoError(t, err)
	assert.Len(t, thresholds, 9)
	require.NoError(t, f.Close())

	table, err := ReadMainTable(path)
	require.NoError(t, err)
	assert.Equal(t, models.MainDatasetColumns, table.Columns)
	require.Len(t, table.Rows, 60)
	assert.Equal(t, "01-06-2025 00:00", table.Cell(0, models.ColTimestamp))
	assert.Equal(t, "Rohu", table.Cell(0, models.ColCarpSpecies))

	rows, err := ParseDatasetRows(table)
	require.NoError(t, err)
	require.Len(t, rows, len(ds.Rows))
	for i := range rows {
		want := ds.Rows[i]
		want.Labels.QualityScore = 0
		want.Labels.GrowthScore = 0
		assert.Equal(t, want, rows[i])
	}
}

func TestTableFromRowsMatchesStrings(t *testing.T) {
	ds, err := NewGenerator(smallOptions(2), zap.NewNop()).Generate()
	require.NoError(t, err)

	table := TableFromRows(ds.Rows)
	require.Len(t, table.Rows, 6)
	assert.Equal(t, ds.Rows[4].Strings(), table.Rows[4])
	assert.Equal(t, "2", table.Cell(4, models.ColTankID))
	assert.Equal(t, "", table.Cell(4, "Unknown"))
	assert.Equal(t, "", table.Cell(99, models.ColTankID))
}

func TestParseDatasetRowsErrors(t *testing.T) {
	_, err := ParseDatasetRows(&Table{Columns: []string{models.ColTimestamp}})
	assert.ErrorContains(t, err, "missing column")

	ds, err := NewGenerator(smallOptions(1), zap.NewNop()).Generate()
	require.NoError(t, err)
	table := TableFromRows(ds.Rows)
	table.Rows[1][table.Index(models.ColTemperature)] = "warm"

	_, err = ParseDatasetRows(table)
	assert.ErrorContains(t, err, "row 3")
	assert.ErrorContains(t, err, models.ColTemperature)
}
