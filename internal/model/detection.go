package model

import "time"

// PredictionResult is the outcome of classifying one message. Confidence is
// the winning class's share of the ensemble vote, as a percentage rounded to
// two decimal places.
type PredictionResult struct {
	Label      Label
	Confidence float64
}

// DetectionRecord is one row of the append-only detection log. The store
// assigns ID and Timestamp.
type DetectionRecord struct {
	Timestamp  time.Time
	Text       string
	Prediction Label
	Confidence float64
	ID         int64
}

// FeedbackRecord is a human correction to a prior prediction, stored
// separately from the detection log.
type FeedbackRecord struct {
	Timestamp   time.Time
	Text        string
	ActualLabel Label
	ID          int64
}
