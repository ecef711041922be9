package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phish-sieve/internal/common"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Forest.Trees = 25
	return cfg
}

func labeledRaw() RawDataset {
	return RawDataset{
		Columns: []string{"text", "label"},
		Examples: []RawExample{
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
}

func TestPipelineRunToReady(t *testing.T) {
	p := New(testConfig())
	trained, eval, err := p.Run(labeledRaw())
	require.NoError(t, err)

	assert.Equal(t, StateReady, p.State())
	require.NotNil(t, trained)
	assert.NotNil(t, trained.Vectorizer)
	assert.NotNil(t, trained.Forest)

	// 5+5 at 20% leaves one test example per class.
	require.NotNil(t, eval)
	assert.Equal(t, 2, eval.Total)
}

func TestPipelineMissingLabelColumnFailsBeforeSplit(t *testing.T) {
	raw := RawDataset{
		Columns: []string{"text", "category"},
		Examples: []RawExample{
			{Text: "some message"},
		},
	}

	p := New(testConfig())
	_, _, err := p.Run(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
	assert.Equal(t, StateFailed, p.State())
}

func TestPipelineUnknownLabelFails(t *testing.T) {
	raw := RawDataset{
		Columns: []string{"text", "label"},
		Examples: []RawExample{
			{Text: "Verify your account now please", Label: "phishing"},
			{Text: "Lunch tomorrow at noon works", Label: "spam"},
		},
	}

	p := New(testConfig())
	_, _, err := p.Run(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnknownLabel)
	assert.Equal(t, StateFailed, p.State())
}

func TestPipelineEmptyDatasetFails(t *testing.T) {
	raw := RawDataset{Columns: []string{"text", "label"}}

	p := New(testConfig())
	_, _, err := p.Run(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidDataset)
	assert.Equal(t, StateFailed, p.State())
}

func TestPipelineSkipsEvaluationWhenTestEmpty(t *testing.T) {
	raw := RawDataset{
		Columns: []string{"text", "label"},
		Examples: []RawExample{
			{Text: "Verify your account now to avoid suspension", Label: "phishing"},
			{Text: "Lunch tomorrow at noon downtown", Label: "legitimate"},
		},
	}

	p := New(testConfig())
	trained, eval, err := p.Run(raw)
	require.NoError(t, err)
	require.NotNil(t, trained)
	assert.Nil(t, eval, "evaluation should be skipped without test samples")
	assert.Equal(t, StateReady, p.State())
}

func TestPipelineRejectsOutOfOrderTransitions(t *testing.T) {
	p := New(testConfig())

	assert.ErrorIs(t, p.Validate(), common.ErrInvalidTransition)
	assert.ErrorIs(t, p.Split(), common.ErrInvalidTransition)
	assert.ErrorIs(t, p.Fit(), common.ErrInvalidTransition)

	_, err := p.Evaluate()
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	_, err = p.Publish()
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	require.NoError(t, p.Load(labeledRaw()))
	assert.ErrorIs(t, p.Load(labeledRaw()), common.ErrInvalidTransition)
}

func TestPipelineStateStrings(t *testing.T) {
	states := map[State]string{
		StateIdle:      "idle",
		StateLoaded:    "loaded",
		StateValidated: "validated",
		StateSplit:     "split",
		StateFitted:    "fitted",
		StateEvaluated: "evaluated",
		StateReady:     "ready",
		StateFailed:    "failed",
	}
	for state, want := range states {
		assert.Equal(t, want, state.String())
	}
}
