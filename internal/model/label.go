// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/phish-sieve/internal/common"
)

// Label classifies a message as phishing or legitimate.
type Label string

// Recognized label values.
const (
	LabelPhishing   Label = "phishing"
	LabelLegitimate Label = "legitimate"
)

// Labels lists every recognized label in deterministic order.
func Labels() []Label {
	return []Label{LabelLegitimate, LabelPhishing}
}

// ParseLabel converts raw input into a Label, normalizing case and
// surrounding whitespace.
func ParseLabel(raw string) (Label, error) {
	switch Label(strings.ToLower(strings.TrimSpace(raw))) {
	case LabelPhishing:
		return LabelPhishing, nil
	case LabelLegitimate:
		return LabelLegitimate, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownLabel, raw)
	}
}

// Valid reports whether the label is one of the two recognized values.
func (l Label) Valid() bool {
	return l == LabelPhishing || l == LabelLegitimate
}

func (l Label) String() string {
	return string(l)
}
