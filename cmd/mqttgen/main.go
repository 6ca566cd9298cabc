package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hatchery/config"
	"hatchery/models"
	"hatchery/services"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

var (
	rps      = flag.Int("rps", 1, "Messages per second")
	input    = flag.String("input", "", "Dataset workbook to replay (default OUTPUT_FILE)")
	tankID   = flag.Int("tank", 0, "Replay only this tank (0 = all)")
	loop     = flag.Bool("loop", false, "Start over when the dataset is exhausted")
	liveTime = flag.Bool("live", false, "Stamp messages with the current time instead of the dataset timestamp")
)

// ReplaySource walks dataset rows in generation order
type ReplaySource struct {
	rows []models.DatasetRow
	next int
	loop bool
}

func NewReplaySource(rows []models.DatasetRow, tankID int, loop bool) *ReplaySource {
	selected := rows
	if tankID != 0 {
		selected = make([]models.DatasetRow, 0, len(rows))
		for _, row := range rows {
			if row.TankID == tankID {
				selected = append(selected, row)
			}
		}
	}
	return &ReplaySource{rows: selected, loop: loop}
}

// Next returns the next probe message, or false when the rows are exhausted
func (s *ReplaySource) Next(live bool) (*models.TankReadingMessage, bool) {
	if len(s.rows) == 0 {
		return nil, false
	}
	if s.next >= len(s.rows) {
		if !s.loop {
			return nil, false
		}
		s.next = 0
	}

	msg := models.NewTankReadingMessage(s.rows[s.next])
	if live {
		msg.Timestamp = time.Now()
	}
	s.next++
	return msg, true
}

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *rps <= 0 {
		logger.Fatal("rps must be positive", zap.Int("rps", *rps))
	}

	path := *input
	if path == "" {
		path = cfg.OutputFile
	}

	table, err := services.ReadMainTable(path)
	if err != nil {
		logger.Fatal("Failed to read dataset", zap.Error(err))
	}
	rows, err := services.ParseDatasetRows(table)
	if err != nil {
		logger.Fatal("Failed to parse dataset", zap.Error(err))
	}
	source := NewReplaySource(rows, *tankID, *loop)

	logger.Info("MQTT dataset replay started",
		zap.String("input", path),
		zap.Int("rows", len(source.rows)),
		zap.Int("rps", *rps),
		zap.String("mqtt_broker", cfg.MQTTBroker),
		zap.String("mqtt_topic", cfg.MQTTTopic),
	)
	logger.Info("Press Ctrl+C to stop gracefully")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.MQTTBroker))
	opts.SetClientID(fmt.Sprintf("hatchery-replay-%d", os.Getpid()))
	opts.SetUsername(cfg.MQTTUser)
	opts.SetPassword(cfg.MQTTPass)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)

	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("Connected to MQTT broker", zap.String("broker", cfg.MQTTBroker))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Error("MQTT connection lost", zap.Error(err))
	}

	mqttClient := mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		logger.Fatal("Failed to connect to MQTT broker", zap.Error(token.Error()))
	}
	defer mqttClient.Disconnect(250)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, stopping replay")
		cancel()
	}()

	interval := time.Second / time.Duration(*rps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	messageCount := 0
	leakCount := 0
	startTime := time.Now()

	statsTicker := time.NewTicker(60 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Replay stopped",
				zap.Int("total_messages", messageCount),
				zap.Int("leaking_rows", leakCount),
				zap.Duration("total_uptime", time.Since(startTime)))
			return

		case <-ticker.C:
			msg, ok := source.Next(*liveTime)
			if !ok {
				logger.Info("Dataset exhausted",
					zap.Int("total_messages", messageCount),
					zap.Int("leaking_rows", leakCount))
				return
			}

			jsonData, err := json.Marshal(msg)
			if err != nil {
				logger.Error("Failed to marshal tank reading", zap.Error(err))
				continue
			}

			token := mqttClient.Publish(cfg.MQTTTopic, 0, false, jsonData)
			if token.Wait() && token.Error() != nil {
				logger.Error("Failed to publish MQTT message",
					zap.Error(token.Error()),
					zap.Int("message_count", messageCount))
				continue
			}

			messageCount++
			if source.rows[source.next-1].Labels.TankLeakage == 1 {
				leakCount++
			}

			if messageCount%100 == 0 {
				logger.Info("MQTT messages published",
					zap.Int("count", messageCount),
					zap.Float64("rate", float64(messageCount)/time.Since(startTime).Seconds()))
			}

			logger.Debug("Published MQTT message",
				zap.String("device_id", msg.DeviceID),
				zap.Int("tank_id", msg.TankID),
				zap.String("topic", cfg.MQTTTopic))

		case <-statsTicker.C:
			logger.Info("Statistics",
				zap.Int("total_messages", messageCount),
				zap.Int("leaking_rows", leakCount),
				zap.Float64("avg_rate_msg_per_sec", float64(messageCount)/time.Since(startTime).Seconds()),
				zap.Duration("uptime", time.Since(startTime)))
		}
	}
}
