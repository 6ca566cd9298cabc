package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"hatchery/config"
	"hatchery/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// messageSender is the part of the bot API the service uses
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramService struct {
	bot      messageSender
	chatID   int64
	throttle *alertThrottle
	logger   *zap.Logger
}

func NewTelegramService(cfg *config.Config, logger *zap.Logger) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}

	chatID, err := strconv.ParseInt(cfg.TelegramChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing chat ID: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", bot.Self.UserName))

	ts := newTelegramService(bot, chatID, time.Duration(cfg.AlertThrottleSeconds)*time.Second, logger)

	// Test Telegram connection with retry
	if err := ts.testConnection(bot); err != nil {
		logger.Error("Telegram connection test failed", zap.Error(err))
		return nil, fmt.Errorf("telegram connection test failed: %w", err)
	}

	return ts, nil
}

func newTelegramService(bot messageSender, chatID int64, throttleWindow time.Duration, logger *zap.Logger) *TelegramService {
	return &TelegramService{
		bot:      bot,
		chatID:   chatID,
		throttle: newAlertThrottle(throttleWindow),
		logger:   logger,
	}
}

// testConnection tests Telegram connection with retry logic
func (ts *TelegramService) testConnection(bot *tgbotapi.BotAPI) error {
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ts.logger.Info("Testing Telegram connection", zap.Int("attempt", attempt), zap.Int("max_retries", maxRetries))

		_, err := bot.GetMe()
		if err == nil {
			ts.logger.Info("Telegram connection successful")
			return nil
		}

		ts.logger.Warn("Telegram connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err))

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return fmt.Errorf("failed to connect to Telegram after %d attempts", maxRetries)
}

// SendRowAlert sends the issues of a labeled row, at most once per tank per
// throttle window
func (ts *TelegramService) SendRowAlert(issues []*models.Issue, row *models.DatasetRow) error {
	if len(issues) == 0 {
		return nil
	}

	if !ts.throttle.Allow(row.TankID) {
		ts.logger.Debug("Throttling alert", zap.Int("tank_id", row.TankID))
		return nil
	}

	if err := ts.SendStatusMessage(formatIssueMessage(issues, row)); err != nil {
		return fmt.Errorf("error sending telegram message: %w", err)
	}
	ts.throttle.Mark(row.TankID)

	ts.logger.Info("Sent tank alert",
		zap.Int("tank_id", row.TankID),
		zap.Int("issue_count", len(issues)))
	return nil
}

// SendSummary reports a finished generation run
func (ts *TelegramService) SendSummary(runID string, summary Summary) error {
	return ts.SendStatusMessage(formatSummaryMessage(runID, summary))
}

// SendStatusMessage sends a general status message
func (ts *TelegramService) SendStatusMessage(message string) error {
	msg := tgbotapi.NewMessage(ts.chatID, message)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true

	_, err := ts.bot.Send(msg)
	return err
}

// SendStartupMessage sends a message when the monitor starts
func (ts *TelegramService) SendStartupMessage() error {
	message := "🟢 <b>Hatchery Tank Monitor Started</b>\n\n" +
		"📡 Consuming tank probe readings\n" +
		"🤖 Telegram notifications active\n" +
		"👀 Watching for leakage and critical water conditions...\n\n" +
		"✅ System is ready and operational!"

	return ts.SendStatusMessage(message)
}

// formatIssueMessage creates a mobile-friendly alert for one row
func formatIssueMessage(issues []*models.Issue, row *models.DatasetRow) string {
	var sb strings.Builder
	r := row.Reading

	sb.WriteString("🚨 <b>HATCHERY TANK ALERT</b> 🚨\n\n")

	sb.WriteString(fmt.Sprintf("🐟 <b>Tank:</b> %d (%s)\n", row.TankID, row.Species))
	sb.WriteString(fmt.Sprintf("🕐 <b>Time:</b> %s\n\n", row.Timestamp.Format(models.TimestampLayout)))

	sb.WriteString("📊 <b>Current Readings:</b>\n")
	sb.WriteString(fmt.Sprintf("🌡️ Temperature: %.1f°C\n", r.Temperature))
	sb.WriteString(fmt.Sprintf("🫧 Dissolved Oxygen: %.1f mg/L\n", r.DissolvedOxygen))
	sb.WriteString(fmt.Sprintf("🧪 pH: %.1f\n", r.PH))
	sb.WriteString(fmt.Sprintf("☠️ Ammonia: %.3f mg/L\n", r.Ammonia))
	sb.WriteString(fmt.Sprintf("💧 Soil Moisture: %.0f\n\n", r.SoilMoisture))

	sb.WriteString("⚠️ <b>Detected Issues:</b>\n")
	for i, issue := range issues {
		sb.WriteString(fmt.Sprintf("%s %s <b>%s</b>\n",
			issue.GetSeverityColor(),
			issue.GetIssueEmoji(),
			issueTitle(issue)))

		sb.WriteString(fmt.Sprintf("   └ %s\n", issue.Description))

		if i < len(issues)-1 {
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n💡 <b>Recommended Action:</b>\n")
	sb.WriteString("Please inspect the tank and correct the water conditions.\n\n")

	sb.WriteString("🔴 <b>Status:</b> ATTENTION REQUIRED")

	return sb.String()
}

func issueTitle(issue *models.Issue) string {
	switch issue.Type {
	case models.TankLeaking:
		return "Tank Leakage Alert"
	case models.TemperatureCritical:
		return "Critical Temperature Alert"
	case models.OxygenCritical:
		return "Critical Dissolved Oxygen Alert"
	case models.WaterQualityPoor:
		return "Poor Water Quality Alert"
	case models.GrowthConditionPoor:
		return "Poor Growth Condition Alert"
	default:
		return "Tank Alert"
	}
}

// formatSummaryMessage renders the run summary with sorted label values
func formatSummaryMessage(runID string, s Summary) string {
	var sb strings.Builder

	sb.WriteString("📦 <b>Dataset Generated</b>\n\n")
	if runID != "" {
		sb.WriteString(fmt.Sprintf("🆔 <b>Run:</b> <code>%s</code>\n", runID))
	}
	sb.WriteString(fmt.Sprintf("📄 <b>Rows:</b> %d\n\n", s.Rows))

	sb.WriteString("🐟 <b>Species:</b>\n")
	for _, name := range sortedKeys(s.Species) {
		sb.WriteString(fmt.Sprintf("  • %s: %d\n", name, s.Species[name]))
	}

	sb.WriteString("\n🏷️ <b>Labels:</b>\n")
	for _, col := range SummaryLabelColumns {
		counts := s.Labels[col]
		parts := make([]string, 0, len(counts))
		for _, value := range sortedKeys(counts) {
			parts = append(parts, fmt.Sprintf("%s=%d", value, counts[value]))
		}
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", col, strings.Join(parts, ", ")))
	}

	if len(s.Stats) > 0 {
		sb.WriteString("\n📊 <b>Statistics (mean ± std):</b>\n")
		for _, fs := range s.Stats {
			sb.WriteString(fmt.Sprintf("  • %s: %.2f ± %.2f [%.2f, %.2f]\n", fs.Column, fs.Mean, fs.StdDev, fs.Min, fs.Max))
		}
	}

	return sb.String()
}

// SendProbeSilentAlert reports a probe that stopped publishing readings
func (ts *TelegramService) SendProbeSilentAlert(probe models.ProbeHealth, silentFor time.Duration) error {
	if err := ts.SendStatusMessage(formatProbeSilentMessage(probe, silentFor)); err != nil {
		return fmt.Errorf("error sending silent probe alert: %w", err)
	}

	ts.logger.Info("Sent silent probe alert",
		zap.String("device_id", probe.DeviceID),
		zap.Duration("time_since_last_seen", silentFor))
	return nil
}

// SendProbeRecoveryAlert reports a probe that is publishing again
func (ts *TelegramService) SendProbeRecoveryAlert(probe models.ProbeHealth, downFor time.Duration) error {
	var sb strings.Builder

	sb.WriteString("✅ <b>PROBE RECOVERED</b> ✅\n\n")
	sb.WriteString(fmt.Sprintf("📱 <b>Probe:</b> %s (tank %d)\n", probe.DeviceID, probe.TankID))
	sb.WriteString(fmt.Sprintf("🕐 <b>Recovery Time:</b> %s\n", probe.LastSeen.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("⏱️ <b>Downtime:</b> %s\n\n", formatDuration(downFor)))
	sb.WriteString("🟢 <b>Status:</b> PROBE ONLINE")

	if err := ts.SendStatusMessage(sb.String()); err != nil {
		return fmt.Errorf("error sending probe recovery alert: %w", err)
	}

	ts.logger.Info("Sent probe recovery alert",
		zap.String("device_id", probe.DeviceID),
		zap.Duration("down_duration", downFor))
	return nil
}

func formatProbeSilentMessage(probe models.ProbeHealth, silentFor time.Duration) string {
	var sb strings.Builder

	sb.WriteString("⚠️ <b>TANK PROBE SILENT</b> ⚠️\n\n")
	sb.WriteString(fmt.Sprintf("📱 <b>Probe:</b> %s (tank %d)\n", probe.DeviceID, probe.TankID))
	sb.WriteString(fmt.Sprintf("🕐 <b>Last Seen:</b> %s\n", probe.LastSeen.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("⏱️ <b>Time Since Last Reading:</b> %s\n\n", formatDuration(silentFor)))

	if r := probe.LastReading; r != nil {
		sb.WriteString("📊 <b>Last Reading:</b>\n")
		sb.WriteString(fmt.Sprintf("🌡️ Temperature: %.1f°C\n", r.Temperature))
		sb.WriteString(fmt.Sprintf("🫧 Dissolved Oxygen: %.1f mg/L\n", r.DissolvedOxygen))
		sb.WriteString(fmt.Sprintf("💧 Soil Moisture: %.0f\n\n", r.SoilMoisture))
	}

	sb.WriteString("💡 <b>Action Required:</b>\n")
	sb.WriteString("The probe may be offline or out of power. Please check the tank.\n\n")
	sb.WriteString("🔴 <b>Status:</b> PROBE SILENT")

	return sb.String()
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0f seconds", d.Seconds())
	} else if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%d min %d sec", minutes, seconds)
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%d days %d hr", days, hours)
}

// alertThrottle tracks the last alert time per tank
type alertThrottle struct {
	window time.Duration
	mu     sync.Mutex
	last   map[int]time.Time
	now    func() time.Time
}

func newAlertThrottle(window time.Duration) *alertThrottle {
	return &alertThrottle{
		window: window,
		last:   make(map[int]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether the tank is outside its throttle window
func (t *alertThrottle) Allow(tankID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, exists := t.last[tankID]
	if !exists {
		return true
	}
	return t.now().Sub(last) >= t.window
}

// Mark records an alert sent now
func (t *alertThrottle) Mark(tankID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[tankID] = t.now()
}
