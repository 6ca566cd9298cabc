package repository

import (
	"path/filepath"
	"testing"
	"time"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepo(t *testing.T) *SQLiteDatasetRepository {
	t.Helper()
	repo, err := NewSQLiteDatasetRepository(filepath.Join(t.TempDir(), "hatchery.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testRows() []models.DatasetRow {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	return []models.DatasetRow{
		{
			EntryID:   1,
			Timestamp: start,
			TankID:    1,
			Species:   "Rohu",
			Reading: models.SensorReading{
				Temperature: 28.1, DissolvedOxygen: 6.4, PH: 7.8, Ammonia: 0.052, Nitrate: 4.3,
				Turbidity: 24.9, Alkalinity: 101.2, Hardness: 98.7, SoilMoisture: 3812, WaterFlow: 151.5,
				FeedingFrequency: 3,
			},
			Labels: models.DerivedLabels{
				TemperatureStatus: models.StatusOptimal,
				WaterQualityIndex: models.GradeExcellent,
				DOStatus:          models.StatusOptimal,
				GrowthCondition:   models.GradeExcellent,
				QualityScore:      16,
				GrowthScore:       9,
			},
		},
		{
			EntryID:   2,
			Timestamp: start,
			TankID:    2,
			Species:   "Catla",
			Reading: models.SensorReading{
				Temperature: 33.2, DissolvedOxygen: 3.6, PH: 6.3, Ammonia: 0.6, Nitrate: 28,
				Turbidity: 70, Alkalinity: 55, Hardness: 40, SoilMoisture: 4061, WaterFlow: 110,
				FeedingFrequency: 2,
			},
			Labels: models.DerivedLabels{
				TankLeakage:       1,
				TemperatureStatus: models.StatusCritical,
				WaterQualityIndex: models.GradePoor,
				DOStatus:          models.StatusCritical,
				GrowthCondition:   models.GradePoor,
			},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	repo := newTestRepo(t)
	rows := testRows()

	require.NoError(t, repo.SaveRun("run-a", 42, rows))

	loaded, err := repo.LoadRows("run-a")
	require.NoError(t, err)
	assert.Equal(t, rows, loaded)

	missing, err := repo.LoadRows("run-b")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.SaveRun("run-a", 1, testRows()))
	assert.Error(t, repo.SaveRun("run-a", 2, testRows()))

	loaded, err := repo.LoadRows("run-a")
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestLatestRunID(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.LatestRunID()
	assert.ErrorIs(t, err, ErrNoRuns)

	require.NoError(t, repo.SaveRun("first", 1, testRows()))
	require.NoError(t, repo.SaveRun("second", 2, testRows()[:1]))

	id, err := repo.LatestRunID()
	require.NoError(t, err)
	assert.Equal(t, "second", id)
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := NewSQLiteDatasetRepository("", zap.NewNop())
	assert.Error(t, err)
}
