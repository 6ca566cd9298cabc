package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"hatchery/config"
	"hatchery/models"
	"hatchery/services"

	"go.uber.org/zap"
)

var tankID = flag.Int("tank", 0, "Show only this tank (0 = all)")

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if !cfg.FirebaseEnabled() {
		logger.Fatal("FIREBASE_SERVICE_ACCOUNT_JSON and FIREBASE_DB_URL must be set")
	}

	firebaseService, err := services.NewFirebaseService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase service", zap.Error(err))
	}
	defer firebaseService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tanks := models.TankIDs()
	if *tankID != 0 {
		tanks = []int{*tankID}
	}

	for _, id := range tanks {
		row, err := firebaseService.GetLatestReading(ctx, id)
		if err != nil {
			fmt.Printf("Tank %d: %v\n---\n", id, err)
			continue
		}
		fmt.Print(formatRow(row))
		fmt.Println("---")
	}
}

func formatRow(row *models.DatasetRow) string {
	r := row.Reading
	return fmt.Sprintf("Tank %d (%s) at %s\n"+
		"  Temperature: %.1f C [%s]\n"+
		"  Dissolved oxygen: %.1f mg/L [%s]\n"+
		"  pH: %.1f  Ammonia: %.3f mg/L  Turbidity: %.1f NTU\n"+
		"  Soil moisture: %.0f  Leakage: %d\n"+
		"  Water quality: %s  Growth: %s\n",
		row.TankID, row.Species, row.Timestamp.Format(models.TimestampLayout),
		r.Temperature, row.Labels.TemperatureStatus,
		r.DissolvedOxygen, row.Labels.DOStatus,
		r.PH, r.Ammonia, r.Turbidity,
		r.SoilMoisture, row.Labels.TankLeakage,
		row.Labels.WaterQualityIndex, row.Labels.GrowthCondition)
}
