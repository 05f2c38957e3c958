// Package db persists served predictions to SQLite.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// PredictionRecord is one served prediction.
type PredictionRecord struct {
	ID        int64     `json:"id"`
	Input     float64   `json:"input"`
	Output    float64   `json:"output"`
	LatencyMS float64   `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the prediction history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        input REAL NOT NULL,
        output REAL NOT NULL,
        latency_ms REAL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// SavePrediction appends one record.
func (s *Store) SavePrediction(input, output float64, latency time.Duration) error {
	_, err := s.db.Exec(`
        INSERT INTO predictions (input, output, latency_ms, created_at)
        VALUES (?, ?, ?, ?)`,
		input, output, float64(latency.Microseconds())/1000, time.Now())
	return err
}

// QueryRecent returns the latest records, newest first.
func (s *Store) QueryRecent(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
        SELECT id, input, output, latency_ms, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var r PredictionRecord
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.LatencyMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the total number of stored predictions.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
