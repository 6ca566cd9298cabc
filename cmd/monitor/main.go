package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hatchery/config"
	"hatchery/log"
	"hatchery/models"
	"hatchery/services"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log.Configure(cfg.LogLevel, cfg.LogFormat)
	logger := log.GetInstance()
	defer logger.Sync()

	rabbitService, err := services.NewRabbitMQService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize RabbitMQ service", zap.Error(err))
	}
	defer rabbitService.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Optional Firebase sink behind the batch writer
	var rowChan chan *models.DatasetRow
	var batchWriter *services.BatchWriterService
	if cfg.FirebaseEnabled() {
		firebaseService, err := services.NewFirebaseService(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase service", zap.Error(err))
		}
		defer firebaseService.Close()

		for _, tankID := range models.TankIDs() {
			if row, err := firebaseService.GetLatestReading(ctx, tankID); err == nil {
				logger.Info("Last stored reading",
					zap.Int("tank_id", tankID),
					zap.Time("timestamp", row.Timestamp),
					zap.String("growth_condition", string(row.Labels.GrowthCondition)))
			}
		}

		rowChan = make(chan *models.DatasetRow, cfg.FirebaseBatchSize*2)
		batchWriter = services.NewBatchWriterService(cfg, firebaseService, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			batchWriter.Start(ctx, rowChan)
		}()
	} else {
		logger.Info("Firebase not configured, labeled rows are not stored")
	}

	// Optional Telegram and controller alerts
	var notifiers services.NotifierGroup
	var probeAlerter services.ProbeAlerter
	if cfg.TelegramEnabled() {
		telegramService, err := services.NewTelegramService(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram service", zap.Error(err))
		}
		if err := telegramService.SendStartupMessage(); err != nil {
			logger.Warn("Failed to send startup message", zap.Error(err))
		}
		notifiers = append(notifiers, telegramService)
		probeAlerter = telegramService
	} else {
		logger.Info("Telegram not configured")
	}
	if cfg.ControllerAPIURL != "" {
		notifiers = append(notifiers, services.NewControllerAlertService(logger, cfg.ControllerAPIURL))
	}
	var notifier services.AlertNotifier
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	monitor := services.NewTankMonitor(models.DefaultRuleSet(), uint64(time.Now().UnixNano()), rowChan, notifier, logger)

	if cfg.ProbeTimeoutSeconds > 0 {
		watchdog := services.NewProbeWatchdog(time.Duration(cfg.ProbeTimeoutSeconds)*time.Second, probeAlerter, logger)
		monitor.SetWatchdog(watchdog)
		wg.Add(1)
		go func() {
			defer wg.Done()
			watchdog.Run(ctx, 10*time.Second)
		}()
	}

	logger.Info("Hatchery tank monitor started",
		zap.String("queue", cfg.RabbitMQQueue),
		zap.Bool("firebase", cfg.FirebaseEnabled()),
		zap.Bool("telegram", cfg.TelegramEnabled()),
		zap.String("controller_api", cfg.ControllerAPIURL),
		zap.Int("alert_throttle_seconds", cfg.AlertThrottleSeconds))

	readings := make(chan *models.TankReadingMessage, 100)

	wg.Add(1)
	go func() {
		defer wg.Done()
		monitor.Run(ctx, readings)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := rabbitService.Consume(ctx, readings); err != nil {
			logger.Error("RabbitMQ consumer stopped", zap.Error(err))
			cancel()
		}
	}()

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, stopping services")
	case <-ctx.Done():
	}
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Cleanup completed successfully")
	case <-time.After(15 * time.Second):
		logger.Warn("Cleanup timeout, forcing exit")
	}

	logger.Info("Hatchery tank monitor stopped")
}
