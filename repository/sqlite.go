// Package repository persists generated datasets
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hatchery/models"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrNoRuns is returned by LatestRunID on an empty database
var ErrNoRuns = errors.New("no generation runs stored")

// DatasetRepository stores generation runs and their rows
type DatasetRepository interface {
	SaveRun(runID string, seed uint64, rows []models.DatasetRow) error
	LoadRows(runID string) ([]models.DatasetRow, error)
	LatestRunID() (string, error)
	Close() error
}

// SQLiteDatasetRepository implements DatasetRepository using SQLite
type SQLiteDatasetRepository struct {
	db     *sql.DB
	DBPath string
	logger *zap.Logger
}

// NewSQLiteDatasetRepository opens the database and creates the tables
func NewSQLiteDatasetRepository(dbPath string, logger *zap.Logger) (*SQLiteDatasetRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	logger.Info("Opening database", zap.String("path", dbPath))
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS generation_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		seed INTEGER NOT NULL,
		row_count INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS dataset_rows (
		run_id TEXT NOT NULL,
		entry_id INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		tank_id INTEGER NOT NULL,
		species TEXT NOT NULL,
		temperature REAL,
		dissolved_oxygen REAL,
		ph REAL,
		ammonia REAL,
		nitrate REAL,
		turbidity REAL,
		alkalinity REAL,
		hardness REAL,
		soil_moisture REAL,
		water_flow REAL,
		feeding_frequency INTEGER,
		tank_leakage INTEGER,
		temperature_status TEXT,
		water_quality_index TEXT,
		do_status TEXT,
		growth_condition TEXT,
		quality_score INTEGER,
		growth_score INTEGER,
		PRIMARY KEY(run_id, entry_id)
	);
	CREATE INDEX IF NOT EXISTS idx_rows_tank ON dataset_rows(run_id, tank_id);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteDatasetRepository{
		db:     db,
		DBPath: dbPath,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (r *SQLiteDatasetRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveRun stores a run and all of its rows in one transaction
func (r *SQLiteDatasetRepository) SaveRun(runID string, seed uint64, rows []models.DatasetRow) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO generation_runs(run_id, seed, row_count) VALUES(?, ?, ?)`,
		runID, int64(seed), len(rows),
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert run %s: %w", runID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO dataset_rows(
			run_id, entry_id, timestamp, tank_id, species,
			temperature, dissolved_oxygen, ph, ammonia, nitrate, turbidity,
			alkalinity, hardness, soil_moisture, water_flow, feeding_frequency,
			tank_leakage, temperature_status, water_quality_index, do_status, growth_condition,
			quality_score, growth_score
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		rd, lb := row.Reading, row.Labels
		_, err := stmt.Exec(
			runID, row.EntryID, row.Timestamp.UTC().Format(time.RFC3339), row.TankID, row.Species,
			rd.Temperature, rd.DissolvedOxygen, rd.PH, rd.Ammonia, rd.Nitrate, rd.Turbidity,
			rd.Alkalinity, rd.Hardness, rd.SoilMoisture, rd.WaterFlow, rd.FeedingFrequency,
			lb.TankLeakage, string(lb.TemperatureStatus), string(lb.WaterQualityIndex), string(lb.DOStatus), string(lb.GrowthCondition),
			lb.QualityScore, lb.GrowthScore,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert entry %d: %w", row.EntryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Saved generation run",
		zap.String("run_id", runID),
		zap.Int("rows", len(rows)))
	return nil
}

// LoadRows returns the rows of a run ordered by entry id
func (r *SQLiteDatasetRepository) LoadRows(runID string) ([]models.DatasetRow, error) {
	rows, err := r.db.Query(`
		SELECT entry_id, timestamp, tank_id, species,
			temperature, dissolved_oxygen, ph, ammonia, nitrate, turbidity,
			alkalinity, hardness, soil_moisture, water_flow, feeding_frequency,
			tank_leakage, temperature_status, water_quality_index, do_status, growth_condition,
			quality_score, growth_score
		FROM dataset_rows
		WHERE run_id = ?
		ORDER BY entry_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of run %s: %w", runID, err)
	}
	defer rows.Close()

	var result []models.DatasetRow
	for rows.Next() {
		var row models.DatasetRow
		var ts string
		var tempStatus, quality, doStatus, growth string
		rd := &row.Reading
		lb := &row.Labels
		if err := rows.Scan(
			&row.EntryID, &ts, &row.TankID, &row.Species,
			&rd.Temperature, &rd.DissolvedOxygen, &rd.PH, &rd.Ammonia, &rd.Nitrate, &rd.Turbidity,
			&rd.Alkalinity, &rd.Hardness, &rd.SoilMoisture, &rd.WaterFlow, &rd.FeedingFrequency,
			&lb.TankLeakage, &tempStatus, &quality, &doStatus, &growth,
			&lb.QualityScore, &lb.GrowthScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid timestamp %q: %w", row.EntryID, ts, err)
		}
		lb.TemperatureStatus = models.Status(tempStatus)
		lb.WaterQualityIndex = models.Grade(quality)
		lb.DOStatus = models.Status(doStatus)
		lb.GrowthCondition = models.Grade(growth)

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// LatestRunID returns the most recently saved run
func (r *SQLiteDatasetRepository) LatestRunID() (string, error) {
	var runID string
	err := r.db.QueryRow(`SELECT run_id FROM generation_runs ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}
