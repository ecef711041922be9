// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Dataset errors. ErrInvalidDataset is fatal: training must never
	// start on a dataset that failed validation.
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrMissingColumn  = errors.New("missing required column")
	ErrUnknownLabel   = errors.New("unknown label value")

	// Prediction request errors.
	ErrEmptyInput    = errors.New("empty input text")
	ErrInputTooLong  = errors.New("input text too long")
	ErrInputTooShort = errors.New("input text too short")

	// Feedback errors.
	ErrInvalidFeedbackLabel = errors.New("invalid feedback label")

	// Pipeline errors.
	ErrModelNotReady     = errors.New("model not ready")
	ErrInvalidTransition = errors.New("invalid pipeline transition")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsFatal reports whether an error must abort the process rather than be
// converted to a session message. Only dataset validation failures are
// fatal; everything else is recoverable inside the interactive loop.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidDataset) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrUnknownLabel)
}
