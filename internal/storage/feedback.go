package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/phish-sieve/internal/common"
	"github.com/Veraticus/phish-sieve/internal/model"
)

// RecordFeedback appends one human correction to the feedback log. The
// corrected label must be one of the recognized values; anything else is
// reported to the caller and nothing is written.
func (s *SQLiteStorage) RecordFeedback(ctx context.Context, text string, actualLabel model.Label) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(text, "text"); err != nil {
		return err
	}
	if !actualLabel.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidFeedbackLabel, actualLabel)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO false_positives (email_text, actual_label)
		VALUES (?, ?)
	`, text, string(actualLabel))
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	return tx.Commit()
}

// CountFeedback returns the total number of logged corrections.
func (s *SQLiteStorage) CountFeedback(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM false_positives`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
