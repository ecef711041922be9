// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/phish-sieve/internal/model"
)

// FeedbackStore defines the contract for the append-only persistence layer.
type FeedbackStore interface {
	// Detection log operations
	RecordDetection(ctx context.Context, text string, prediction model.Label, confidence float64) error
	LatestDetection(ctx context.Context) (*model.DetectionRecord, error)
	CountDetections(ctx context.Context) (int64, error)

	// Feedback log operations
	RecordFeedback(ctx context.Context, text string, actualLabel model.Label) error
	CountFeedback(ctx context.Context) (int64, error)

	// Lifecycle
	Close() error
}

// Analyzer defines the contract for the prediction service.
type Analyzer interface {
	Analyze(text string) (model.PredictionResult, error)
}
