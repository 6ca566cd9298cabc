package models

import (
	"fmt"
	"time"
)

// TankReadingMessage is the JSON payload a tank probe publishes over MQTT
type TankReadingMessage struct {
	DeviceID  string    `json:"device_id"`
	TankID    int       `json:"tank_id"`
	Species   string    `json:"species"`
	Timestamp time.Time `json:"timestamp"`
	SensorReading
}

// NewTankReadingMessage builds the probe payload for a generated row
func NewTankReadingMessage(row DatasetRow) *TankReadingMessage {
	return &TankReadingMessage{
		DeviceID:      TankDeviceID(row.TankID),
		TankID:        row.TankID,
		Species:       row.Species,
		Timestamp:     row.Timestamp,
		SensorReading: row.Reading,
	}
}

// TankDeviceID names the probe installed in a tank
func TankDeviceID(tankID int) string {
	return fmt.Sprintf("TANK-PROBE-%03d", tankID)
}

// ForecastPoint is one predicted value of a (tank, feature) series
type ForecastPoint struct {
	TankID  int       `json:"tank_id"`
	Feature string    `json:"feature"`
	Time    time.Time `json:"forecast_time"`
	Value   float64   `json:"forecast_value"`
}
