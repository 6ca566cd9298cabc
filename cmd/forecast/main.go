package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hatchery/config"
	"hatchery/log"
	"hatchery/models"
	"hatchery/repository"
	"hatchery/services"

	"go.uber.org/zap"
)

var (
	input = flag.String("input", "", "Dataset workbook (default OUTPUT_FILE)")
	runID = flag.String("run", "", "Load this generation run from SQLITE_PATH instead of the workbook (default latest)")
	at    = flag.String("at", "", "Also predict every tank and feature at this time (DD-MM-YYYY HH:MM)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	log.Configure(cfg.LogLevel, cfg.LogFormat)
	logger := log.GetInstance()
	defer logger.Sync()

	table, err := loadTable(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	forecaster := services.NewForecaster(services.ForecastOptions{
		Steps:     cfg.ForecastSteps,
		MinPoints: cfg.ForecastMinPoints,
		Features:  services.ForecastFeatures,
	}, logger)

	points, err := forecaster.Fit(table)
	if err != nil {
		logger.Fatal("Failed to fit forecasts", zap.Error(err))
	}

	if err := services.WriteForecastCSV(cfg.ForecastCSV, points); err != nil {
		logger.Fatal("Failed to write forecasts", zap.Error(err))
	}
	logger.Info("Forecasts saved", zap.String("path", cfg.ForecastCSV), zap.Int("points", len(points)))

	targets, err := predictionTargets(*at, time.Now())
	if err != nil {
		logger.Fatal("Invalid -at value", zap.Error(err))
	}
	printPredictions(forecaster, targets)
}

func loadTable(cfg *config.Config, logger *zap.Logger) (*services.Table, error) {
	if cfg.SQLitePath == "" || *input != "" {
		path := *input
		if path == "" {
			path = cfg.OutputFile
		}
		logger.Info("Loading dataset workbook", zap.String("path", path))
		return services.ReadMainTable(path)
	}

	repo, err := repository.NewSQLiteDatasetRepository(cfg.SQLitePath, logger)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	id := *runID
	if id == "" {
		if id, err = repo.LatestRunID(); err != nil {
			return nil, err
		}
	}
	rows, err := repo.LoadRows(id)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded dataset from SQLite", zap.String("run_id", id), zap.Int("rows", len(rows)))
	return services.TableFromRows(rows), nil
}

type target struct {
	label string
	time  time.Time
}

// predictionTargets returns the -at time, if given, followed by fixed offsets from now
func predictionTargets(at string, now time.Time) ([]target, error) {
	now = now.Truncate(time.Minute)
	var targets []target
	if at != "" {
		ts, err := time.ParseInLocation(models.TimestampLayout, at, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("use DD-MM-YYYY HH:MM: %w", err)
		}
		targets = append(targets, target{"Requested time", ts})
	}
	return append(targets,
		target{"Now + 30 min", now.Add(30 * time.Minute)},
		target{"Tomorrow same time", now.AddDate(0, 0, 1)},
		target{"Next month same time", now.AddDate(0, 1, 0)},
	), nil
}

func printPredictions(f *services.Forecaster, targets []target) {
	for _, tankID := range f.TankIDs() {
		for _, t := range targets {
			fmt.Fprintf(os.Stdout, "\nTank %d | %s (%s)\n", tankID, t.label, t.time.Format(models.TimestampLayout))
			for _, feature := range f.Features() {
				v, ok := f.PredictAt(tankID, feature, t.time)
				if !ok {
					fmt.Fprintf(os.Stdout, "  %s: [No model]\n", feature)
					continue
				}
				fmt.Fprintf(os.Stdout, "  %s: %.2f\n", feature, v)
			}
		}
	}
}
