package services

import (
	"context"
	"fmt"
	"time"

	"hatchery/config"
	"hatchery/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FirebaseReadingsPath is the Realtime Database node labeled rows are written under
const FirebaseReadingsPath = "tank-readings"

type FirebaseService struct {
	client *db.Client
	config *config.Config
	logger *zap.Logger
}

func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	ctx := context.Background()

	// Parse the service account JSON from environment variable
	serviceAccountJSON := []byte(cfg.FirebaseServiceAccountJSON)

	conf := &firebase.Config{
		DatabaseURL: cfg.FirebaseDbUrl,
	}

	opt := option.WithCredentialsJSON(serviceAccountJSON)
	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	fs := &FirebaseService{
		client: client,
		config: cfg,
		logger: logger,
	}

	// Test Firebase connection with retry
	if err := fs.testConnection(ctx); err != nil {
		logger.Error("Firebase connection test failed", zap.Error(err))
		return nil, fmt.Errorf("firebase connection test failed: %w", err)
	}

	return fs, nil
}

// testConnection tests Firebase connection with retry logic
func (fs *FirebaseService) testConnection(ctx context.Context) error {
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		fs.logger.Info("Testing Firebase connection", zap.Int("attempt", attempt), zap.Int("max_retries", maxRetries))

		ref := fs.client.NewRef(FirebaseReadingsPath)
		var data interface{}
		err := ref.OrderByKey().LimitToFirst(1).Get(ctx, &data)

		if err == nil {
			fs.logger.Info("Firebase connection successful")
			return nil
		}

		fs.logger.Warn("Firebase connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err))

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return fmt.Errorf("failed to connect to Firebase after %d attempts", maxRetries)
}

// WriteBatch stores labeled rows with one multi-path update
func (fs *FirebaseService) WriteBatch(ctx context.Context, rows []*models.DatasetRow) error {
	if len(rows) == 0 {
		return nil
	}

	updates := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		updates[firebaseRowPath(row)] = row
	}

	if err := fs.client.NewRef("/").Update(ctx, updates); err != nil {
		return fmt.Errorf("error writing %d rows: %w", len(rows), err)
	}

	fs.logger.Debug("Wrote batch to Firebase", zap.Int("rows", len(rows)))
	return nil
}

// GetLatestReading returns the most recent labeled row stored for a tank
func (fs *FirebaseService) GetLatestReading(ctx context.Context, tankID int) (*models.DatasetRow, error) {
	ref := fs.client.NewRef(firebaseTankPath(tankID))

	var data map[string]models.DatasetRow
	if err := ref.OrderByKey().LimitToLast(1).Get(ctx, &data); err != nil {
		return nil, fmt.Errorf("error getting latest reading of tank %d: %w", tankID, err)
	}

	for _, row := range data {
		return &row, nil
	}
	return nil, fmt.Errorf("no data found for tank %d", tankID)
}

// Close closes the Firebase connection
func (fs *FirebaseService) Close() error {
	fs.logger.Info("Closing Firebase service")
	// Firebase client doesn't require explicit closing but we log it
	return nil
}

func firebaseTankPath(tankID int) string {
	return fmt.Sprintf("%s/tank_%d", FirebaseReadingsPath, tankID)
}

// firebaseRowPath keys rows by millisecond timestamp so they order by time
func firebaseRowPath(row *models.DatasetRow) string {
	return fmt.Sprintf("%s/%d", firebaseTankPath(row.TankID), row.Timestamp.UnixMilli())
}
