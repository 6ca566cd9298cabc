package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hatchery/models"

	"go.uber.org/zap"
)

// ControllerAlertService posts issues to the tank controller, which drives
// aerators, heaters and the drain valve
type ControllerAlertService struct {
	logger     *zap.Logger
	apiURL     string
	httpClient *http.Client
}

// ControllerAlertPayload represents the payload sent to the controller API
type ControllerAlertPayload struct {
	Row       *models.DatasetRow `json:"row"`
	Issues    []*models.Issue    `json:"issues"`
	Severity  string             `json:"severity"`
	AlertType string             `json:"alert_type"`
}

func NewControllerAlertService(logger *zap.Logger, apiURL string) *ControllerAlertService {
	return &ControllerAlertService{
		logger: logger,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendRowAlert sends the issues of a row via HTTP POST
func (c *ControllerAlertService) SendRowAlert(issues []*models.Issue, row *models.DatasetRow) error {
	if len(issues) == 0 {
		return nil
	}

	severity := issueSeverity(issues)
	payload := ControllerAlertPayload{
		Row:       row,
		Issues:    issues,
		Severity:  severity,
		AlertType: "tank_condition",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/tank-alert", c.apiURL)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Hatchery-Monitor/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send controller alert",
			zap.Error(err),
			zap.Int("tank_id", row.TankID),
			zap.String("url", endpoint))
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("Controller alert sent",
			zap.Int("tank_id", row.TankID),
			zap.Int("issue_count", len(issues)),
			zap.String("severity", severity),
			zap.Int("status_code", resp.StatusCode))
		return nil
	}

	return fmt.Errorf("controller API error: %s", resp.Status)
}

// issueSeverity ranks a set of issues by the most urgent one
func issueSeverity(issues []*models.Issue) string {
	severity := "low"
	for _, issue := range issues {
		switch issue.Type {
		case models.TankLeaking, models.OxygenCritical:
			return "critical"
		case models.TemperatureCritical, models.WaterQualityPoor:
			severity = "high"
		case models.GrowthConditionPoor:
			if severity == "low" {
				severity = "medium"
			}
		}
	}
	return severity
}

// NotifierGroup fans an alert out to several notifiers
type NotifierGroup []AlertNotifier

func (g NotifierGroup) SendRowAlert(issues []*models.Issue, row *models.DatasetRow) error {
	var errs []error
	for _, n := range g {
		if err := n.SendRowAlert(issues, row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
