package models

import "time"

// ProbeStatus represents the liveness of a tank probe
type ProbeStatus string

const (
	ProbeHealthy ProbeStatus = "healthy"
	ProbeSilent  ProbeStatus = "silent"
)

// ProbeHealth tracks when a probe last reported
type ProbeHealth struct {
	DeviceID    string
	TankID      int
	Status      ProbeStatus
	LastSeen    time.Time
	SilentSince time.Time
	LastReading *TankReadingMessage
}
