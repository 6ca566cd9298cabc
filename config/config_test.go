package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Indian_Major_Carps_Dataset.xlsx", cfg.OutputFile)
	assert.Equal(t, uint64(42), cfg.GeneratorSeed)
	assert.Equal(t, 3000, cfg.GeneratorTimestamps)
	assert.Equal(t, 30*time.Minute, cfg.GeneratorInterval())
	assert.Equal(t, 10, cfg.ForecastSteps)
	assert.Equal(t, 20, cfg.ForecastMinPoints)
	assert.Equal(t, "fish_tank_forecasts.csv", cfg.ForecastCSV)
	assert.False(t, cfg.FirebaseEnabled())
	assert.False(t, cfg.TelegramEnabled())

	start, err := cfg.GeneratorStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("GENERATOR_SEED", "7")
	t.Setenv("GENERATOR_TIMESTAMPS", "12")
	t.Setenv("GENERATOR_START", "15-07-2025 06:30")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "123")
	t.Setenv("FORECAST_STEPS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.GeneratorSeed)
	assert.Equal(t, 12, cfg.GeneratorTimestamps)
	assert.Equal(t, 10, cfg.ForecastSteps)
	assert.True(t, cfg.TelegramEnabled())

	start, err := cfg.GeneratorStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 15, 6, 30, 0, 0, time.UTC), start)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("GENERATOR_TIMESTAMPS", "0")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "GENERATOR_TIMESTAMPS")
}

func TestValidateStart(t *testing.T) {
	cfg := &Config{
		GeneratorTimestamps:      1,
		GeneratorIntervalMinutes: 30,
		ForecastSteps:            1,
		FirebaseBatchSize:        1,
		GeneratorStartText:       "2025-06-01 00:00",
	}
	assert.ErrorContains(t, cfg.Validate(), "GENERATOR_START")

	cfg.GeneratorStartText = DefaultStart
	assert.NoError(t, cfg.Validate())
}
