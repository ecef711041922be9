package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phish-sieve/internal/common"
	"github.com/Veraticus/phish-sieve/internal/model"
	"github.com/Veraticus/phish-sieve/internal/training"
)

// trainAnalyzer fits a model on a small balanced corpus, mirroring the
// smallest dataset the detector is expected to handle.
func trainAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	raw := training.RawDataset{
		Columns: []string{"text", "label"},
		Examples: []training.RawExample{
			{Text: "Urgent: verify your account now, click here to avoid suspension", Label: "phishing"},
			{Text: "Your password expired, click this link to verify your account immediately", Label: "phishing"},
			{Text: "Security alert: your account will be suspended, verify your details now", Label: "phishing"},
			{Text: "Click here to claim your prize and verify your bank account", Label: "phishing"},
			{Text: "Account suspended: click the link to verify your identity now", Label: "phishing"},
			{Text: "Meeting rescheduled to Thursday at 2pm, agenda attached", Label: "legitimate"},
			{Text: "Here are the quarterly numbers we discussed in standup", Label: "legitimate"},
			{Text: "Lunch tomorrow? The new place downtown opens at noon", Label: "legitimate"},
			{Text: "The deploy finished and all dashboards look healthy", Label: "legitimate"},
			{Text: "Thanks for the review, I merged the branch this morning", Label: "legitimate"},
		},
	}

	trained, _, err := training.New(training.DefaultConfig()).Run(raw)
	require.NoError(t, err)

	analyzer, err := New(trained, DefaultConfig())
	require.NoError(t, err)
	return analyzer
}

func TestAnalyzeDetectsPhishing(t *testing.T) {
	analyzer := trainAnalyzer(t)

	result, err := analyzer.Analyze("Your account will be suspended, click here now to verify")
	require.NoError(t, err)

	assert.Equal(t, model.LabelPhishing, result.Label)
	assert.Greater(t, result.Confidence, 50.0)
}

func TestAnalyzeConfidenceWithinRange(t *testing.T) {
	analyzer := trainAnalyzer(t)

	inputs := []string{
		"Your account will be suspended, click here now to verify",
		"Lunch tomorrow at the usual place sounds great",
		"completely unrelated words xylophone quartz bramble",
	}
	for _, input := range inputs {
		result, err := analyzer.Analyze(input)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "input %q", input)
		assert.LessOrEqual(t, result.Confidence, 100.0, "input %q", input)
	}
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	analyzer := trainAnalyzer(t)

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := analyzer.Analyze(input)
		assert.ErrorIs(t, err, common.ErrEmptyInput, "input %q", input)
	}
}

func TestAnalyzeRejectsOverlongInput(t *testing.T) {
	analyzer := trainAnalyzer(t)

	_, err := analyzer.Analyze(strings.Repeat("a", 1001))
	assert.ErrorIs(t, err, common.ErrInputTooLong)

	// Exactly at the limit passes validation.
	_, err = analyzer.Analyze(strings.Repeat("a", 1000))
	assert.NoError(t, err)
}

func TestAnalyzeIsPure(t *testing.T) {
	analyzer := trainAnalyzer(t)

	const text = "Click here now to verify your suspended account"
	first, err := analyzer.Analyze(text)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := analyzer.Analyze(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNewRequiresTrainedModel(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	assert.ErrorIs(t, err, common.ErrModelNotReady)

	_, err = New(&training.TrainedModel{}, DefaultConfig())
	assert.ErrorIs(t, err, common.ErrModelNotReady)
}
