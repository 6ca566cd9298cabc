package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"hatchery/models"

	"go.uber.org/zap"
)

// AlertNotifier receives the issues of labeled rows
type AlertNotifier interface {
	SendRowAlert(issues []*models.Issue, row *models.DatasetRow) error
}

// TankMonitor labels live probe readings with the rule engine and forwards
// them to the row sink and the alert notifier
type TankMonitor struct {
	engine   *LabelRuleEngine
	detector *IssueDetector
	src      rand.Source
	notifier AlertNotifier
	rows     chan<- *models.DatasetRow
	watchdog *ProbeWatchdog
	logger   *zap.Logger

	nextEntryID int
}

// NewTankMonitor builds a monitor with its own random stream. rows and
// notifier may be nil when Firebase or Telegram is not configured.
func NewTankMonitor(rules models.RuleSet, seed uint64, rows chan<- *models.DatasetRow, notifier AlertNotifier, logger *zap.Logger) *TankMonitor {
	return &TankMonitor{
		engine:      NewLabelRuleEngine(rules),
		detector:    NewIssueDetector(rules),
		src:         rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		notifier:    notifier,
		rows:        rows,
		logger:      logger,
		nextEntryID: 1,
	}
}

// SetWatchdog makes the monitor report every reading it processes to w
func (m *TankMonitor) SetWatchdog(w *ProbeWatchdog) {
	m.watchdog = w
}

// Process labels one reading. The soil moisture is stored as observed; only
// the leakage label is derived from it.
func (m *TankMonitor) Process(ctx context.Context, msg *models.TankReadingMessage) (*models.DatasetRow, error) {
	profile, ok := models.SpeciesForTank(msg.TankID)
	if !ok {
		return nil, fmt.Errorf("tank %d: %w", msg.TankID, ErrUnknownTank)
	}
	if m.watchdog != nil {
		m.watchdog.Observe(msg)
	}

	_, labels := m.engine.Label(msg.SensorReading, m.src)

	species := msg.Species
	if species == "" {
		species = profile.Name
	}
	row := &models.DatasetRow{
		EntryID:   m.nextEntryID,
		Timestamp: msg.Timestamp,
		TankID:    msg.TankID,
		Species:   species,
		Reading:   msg.SensorReading.Rounded(),
		Labels:    labels,
	}
	m.nextEntryID++

	issues := m.detector.DetectIssues(row)
	if len(issues) > 0 {
		m.logger.Warn("Tank issues detected",
			zap.String("device_id", msg.DeviceID),
			zap.Int("tank_id", row.TankID),
			zap.Int("issue_count", len(issues)),
			zap.Float64("temperature", row.Reading.Temperature),
			zap.Float64("dissolved_oxygen", row.Reading.DissolvedOxygen),
			zap.Float64("soil_moisture", row.Reading.SoilMoisture),
			zap.String("water_quality", string(labels.WaterQualityIndex)),
			zap.String("growth_condition", string(labels.GrowthCondition)))

		if m.notifier != nil {
			if err := m.notifier.SendRowAlert(issues, row); err != nil {
				m.logger.Error("Failed to send alert",
					zap.Int("tank_id", row.TankID),
					zap.Error(err))
			}
		}
	}

	if m.rows != nil {
		select {
		case m.rows <- row:
		case <-ctx.Done():
			return row, ctx.Err()
		case <-time.After(5 * time.Second):
			return row, fmt.Errorf("timeout sending row to batch writer")
		}
	}

	return row, nil
}

// Run processes readings until ctx is cancelled or readings is closed
func (m *TankMonitor) Run(ctx context.Context, readings <-chan *models.TankReadingMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-readings:
			if !ok {
				return
			}
			if _, err := m.Process(ctx, msg); err != nil {
				m.logger.Error("Failed to process reading",
					zap.String("device_id", msg.DeviceID),
					zap.Int("tank_id", msg.TankID),
					zap.Error(err))
			}
		}
	}
}
