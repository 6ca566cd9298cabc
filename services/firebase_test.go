package services

import (
	"testing"
	"time"

	"hatchery/models"

	"github.com/stretchr/testify/assert"
)

func TestFirebaseRowPath(t *testing.T) {
	row := &models.DatasetRow{
		TankID:    2,
		Timestamp: time.Date(2025, time.June, 1, 0, 30, 0, 0, time.UTC),
	}
	assert.Equal(t, "tank-readings/tank_2", firebaseTankPath(2))
	assert.Equal(t, "tank-readings/tank_2/1748737800000", firebaseRowPath(row))
}
