// Package detector provides the validated prediction service built on a
// trained model.
package detector

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/phish-sieve/internal/common"
	"github.com/Veraticus/phish-sieve/internal/model"
	"github.com/Veraticus/phish-sieve/internal/training"
)

// Config controls request validation.
type Config struct {
	MaxInputLen int
}

// DefaultConfig returns the standard input limit of 1000 characters.
func DefaultConfig() Config {
	return Config{MaxInputLen: 1000}
}

// Analyzer classifies one message at a time against a trained model. It is
// a pure function of the input text and the model: no side effects.
type Analyzer struct {
	trained *training.TrainedModel
	cfg     Config
}

// New creates an analyzer serving the given trained model.
func New(trained *training.TrainedModel, cfg Config) (*Analyzer, error) {
	if trained == nil || trained.Vectorizer == nil || trained.Forest == nil {
		return nil, common.ErrModelNotReady
	}
	if cfg.MaxInputLen <= 0 {
		cfg.MaxInputLen = DefaultConfig().MaxInputLen
	}
	return &Analyzer{trained: trained, cfg: cfg}, nil
}

// Analyze validates and classifies one message. Text must be non-empty
// after trimming and at most MaxInputLen characters; over-long input is
// rejected outright rather than truncated, so the feature space never sees
// silently mangled text.
func (a *Analyzer) Analyze(text string) (model.PredictionResult, error) {
	if strings.TrimSpace(text) == "" {
		return model.PredictionResult{}, common.ErrEmptyInput
	}
	if n := utf8.RuneCountInString(text); n > a.cfg.MaxInputLen {
		return model.PredictionResult{}, fmt.Errorf("%w: %d characters (max %d)", common.ErrInputTooLong, n, a.cfg.MaxInputLen)
	}

	vec, err := a.trained.Vectorizer.Transform(text)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("failed to vectorize input: %w", err)
	}

	label, err := a.trained.Forest.Predict(vec)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("failed to classify input: %w", err)
	}

	probs, err := a.trained.Forest.Probabilities(vec)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("failed to compute vote distribution: %w", err)
	}

	best := 0.0
	for _, p := range probs {
		if p > best {
			best = p
		}
	}

	return model.PredictionResult{
		Label:      label,
		Confidence: math.Round(best*10000) / 100,
	}, nil
}
