package main

import (
	"hatchery/config"
	"hatchery/log"
	"hatchery/repository"
	"hatchery/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	log.Configure(cfg.LogLevel, cfg.LogFormat)
	logger := log.GetInstance()
	defer logger.Sync()

	start, err := cfg.GeneratorStart()
	if err != nil {
		logger.Fatal("Invalid generator start", zap.Error(err))
	}

	opts := services.DefaultGeneratorOptions()
	opts.Seed = cfg.GeneratorSeed
	opts.Timestamps = cfg.GeneratorTimestamps
	opts.Interval = cfg.GeneratorInterval()
	opts.Start = start

	runID := uuid.New().String()
	logger.Info("Indian major carps dataset generator started",
		zap.String("run_id", runID),
		zap.String("output_file", cfg.OutputFile))

	generator := services.NewGenerator(opts, logger)
	dataset, err := generator.Generate()
	if err != nil {
		logger.Fatal("Failed to generate dataset", zap.Error(err))
	}

	summary := services.Summarize(dataset.Rows)
	summary.Log(logger)

	if err := services.WriteWorkbook(cfg.OutputFile, dataset); err != nil {
		logger.Fatal("Failed to write workbook", zap.Error(err))
	}
	logger.Info("Workbook saved",
		zap.String("path", cfg.OutputFile),
		zap.Strings("sheets", []string{services.SheetMainDataset, services.SheetThresholds, services.SheetSpecies}),
		zap.Int("rows", len(dataset.Rows)))

	if cfg.SQLitePath != "" {
		repo, err := repository.NewSQLiteDatasetRepository(cfg.SQLitePath, logger)
		if err != nil {
			logger.Fatal("Failed to open dataset repository", zap.Error(err))
		}
		defer repo.Close()

		if err := repo.SaveRun(runID, opts.Seed, dataset.Rows); err != nil {
			logger.Fatal("Failed to persist dataset", zap.Error(err))
		}
	}

	// The summary is best effort; the workbook is already written
	if cfg.TelegramEnabled() {
		telegramService, err := services.NewTelegramService(cfg, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram service", zap.Error(err))
		} else if err := telegramService.SendSummary(runID, summary); err != nil {
			logger.Warn("Failed to send summary", zap.Error(err))
		}
	}

	logger.Info("Generation complete", zap.String("run_id", runID))
}
