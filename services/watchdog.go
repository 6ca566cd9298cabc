package services

import (
	"context"
	"sync"
	"time"

	"hatchery/models"

	"go.uber.org/zap"
)

// ProbeAlerter is notified when a probe goes silent and when it reports again
type ProbeAlerter interface {
	SendProbeSilentAlert(probe models.ProbeHealth, silentFor time.Duration) error
	SendProbeRecoveryAlert(probe models.ProbeHealth, downFor time.Duration) error
}

// ProbeWatchdog raises an alert when a tank probe stops publishing readings
type ProbeWatchdog struct {
	timeout time.Duration
	alerter ProbeAlerter
	logger  *zap.Logger
	probes  map[string]*models.ProbeHealth
	mu      sync.RWMutex
	now     func() time.Time
}

func NewProbeWatchdog(timeout time.Duration, alerter ProbeAlerter, logger *zap.Logger) *ProbeWatchdog {
	return &ProbeWatchdog{
		timeout: timeout,
		alerter: alerter,
		logger:  logger,
		probes:  make(map[string]*models.ProbeHealth),
		now:     time.Now,
	}
}

// Observe records a reading from a probe
func (w *ProbeWatchdog) Observe(msg *models.TankReadingMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	probe, exists := w.probes[msg.DeviceID]
	if !exists {
		probe = &models.ProbeHealth{
			DeviceID: msg.DeviceID,
			TankID:   msg.TankID,
			Status:   models.ProbeHealthy,
		}
		w.probes[msg.DeviceID] = probe
		w.logger.Info("New probe registered",
			zap.String("device_id", msg.DeviceID),
			zap.Int("tank_id", msg.TankID))
	}

	wasSilent := probe.Status == models.ProbeSilent

	probe.LastReading = msg
	probe.LastSeen = now
	probe.Status = models.ProbeHealthy

	if wasSilent {
		downFor := now.Sub(probe.SilentSince)
		w.logger.Info("Probe reporting again",
			zap.String("device_id", msg.DeviceID),
			zap.Duration("down_duration", downFor))

		if w.alerter != nil {
			if err := w.alerter.SendProbeRecoveryAlert(*probe, downFor); err != nil {
				w.logger.Error("Failed to send recovery alert",
					zap.String("device_id", msg.DeviceID),
					zap.Error(err))
			}
		}
	}
}

// Run checks for silent probes until ctx is cancelled
func (w *ProbeWatchdog) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	w.logger.Info("Probe watchdog started", zap.Duration("timeout", w.timeout))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Probe watchdog stopped")
			return
		case <-ticker.C:
			w.checkTimeouts()
		}
	}
}

func (w *ProbeWatchdog) checkTimeouts() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	for deviceID, probe := range w.probes {
		if probe.Status == models.ProbeSilent {
			continue
		}

		silentFor := now.Sub(probe.LastSeen)
		if silentFor <= w.timeout {
			continue
		}

		w.logger.Warn("Probe silent",
			zap.String("device_id", deviceID),
			zap.Time("last_seen", probe.LastSeen),
			zap.Duration("time_since_last_seen", silentFor))

		probe.Status = models.ProbeSilent
		probe.SilentSince = now

		if w.alerter != nil {
			if err := w.alerter.SendProbeSilentAlert(*probe, silentFor); err != nil {
				w.logger.Error("Failed to send silent probe alert",
					zap.String("device_id", deviceID),
					zap.Error(err))
			}
		}
	}
}

// Probe returns the health of a probe
func (w *ProbeWatchdog) Probe(deviceID string) (models.ProbeHealth, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	probe, exists := w.probes[deviceID]
	if !exists {
		return models.ProbeHealth{}, false
	}
	return *probe, true
}
