package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"time"

	"hatchery/config"
	"hatchery/models"
	"hatchery/services"

	"go.uber.org/zap"
)

var (
	tankID      = flag.Int("tank", 1, "Tank to publish a reading for")
	seed        = flag.Uint64("seed", 0, "Sampler seed (default current time)")
	rabbitMQURL = flag.String("rabbitmq", "", "RabbitMQ URL (default from config)")
	soil        = flag.Float64("soil", 0, "Override soil moisture, e.g. 4050 to trigger a leak alert")
	temperature = flag.Float64("temp", 0, "Override temperature in C")
	oxygen      = flag.Float64("do", 0, "Override dissolved oxygen in mg/L")
)

// sampleReading draws one reading from the tank's species profile and applies
// the non-zero overrides
func sampleReading(tank int, seed uint64, soil, temp, do float64) (*models.TankReadingMessage, error) {
	profile, ok := models.SpeciesForTank(tank)
	if !ok {
		return nil, services.ErrUnknownTank
	}

	sampler := services.NewParameterSampler(services.DefaultSamplerConfig(), rand.NewPCG(seed, seed))
	reading := sampler.Sample(profile)
	if soil != 0 {
		reading.SoilMoisture = soil
	}
	if temp != 0 {
		reading.Temperature = temp
	}
	if do != 0 {
		reading.DissolvedOxygen = do
	}

	return &models.TankReadingMessage{
		DeviceID:      models.TankDeviceID(tank),
		TankID:        tank,
		Species:       profile.Name,
		Timestamp:     time.Now(),
		SensorReading: reading.Rounded(),
	}, nil
}

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *rabbitMQURL != "" {
		cfg.RabbitMQURL = *rabbitMQURL
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	msg, err := sampleReading(*tankID, s, *soil, *temperature, *oxygen)
	if err != nil {
		logger.Fatal("Failed to build reading", zap.Int("tank_id", *tankID), zap.Error(err))
	}

	rabbitService, err := services.NewRabbitMQService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rabbitService.Publish(ctx, msg); err != nil {
		logger.Fatal("Failed to publish message", zap.Error(err))
	}

	prettyJSON, _ := json.MarshalIndent(msg, "", "  ")
	logger.Info("Tank reading published",
		zap.String("device_id", msg.DeviceID),
		zap.String("exchange", cfg.RabbitMQExchange),
		zap.String("routing_key", cfg.RabbitMQQueue))
	logger.Info("Sent data:\n" + string(prettyJSON))
}
