package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/phish-sieve/internal/model"
)

// RecordDetection appends one row to the detection log inside its own
// immediately-committed transaction. Empty text or prediction skips the
// write with a warning rather than failing: a missing log entry must never
// interrupt the session.
func (s *SQLiteStorage) RecordDetection(ctx context.Context, text string, prediction model.Label, confidence float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" || prediction == "" {
		slog.Warn("Skipping detection save: empty data")
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO detections (email_text, prediction, confidence)
		VALUES (?, ?, ?)
	`, text, string(prediction), confidence)
	if err != nil {
		return fmt.Errorf("failed to save detection: %w", err)
	}

	return tx.Commit()
}

// LatestDetection returns the most recently appended detection, or nil when
// the log is empty.
func (s *SQLiteStorage) LatestDetection(ctx context.Context) (*model.DetectionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var record model.DetectionRecord
	var prediction string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email_text, prediction, confidence, timestamp
		FROM detections
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&record.ID, &record.Text, &prediction, &record.Confidence, &record.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest detection: %w", err)
	}

	record.Prediction = model.Label(prediction)
	return &record, nil
}

// CountDetections returns the total number of logged detections. Always a
// fresh read; every committed write is visible.
func (s *SQLiteStorage) CountDetections(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM detections`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count detections: %w", err)
	}
	return count, nil
}
