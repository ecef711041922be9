package training

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/phish-sieve/internal/common"
	"github.com/Veraticus/phish-sieve/internal/features"
	"github.com/Veraticus/phish-sieve/internal/forest"
	"github.com/Veraticus/phish-sieve/internal/model"
)

// State enumerates the pipeline's lifecycle. Transitions only move forward;
// StateFailed is terminal and reachable from StateLoaded and StateValidated.
type State int

// Pipeline states.
const (
	StateIdle State = iota
	StateLoaded
	StateValidated
	StateSplit
	StateFitted
	StateEvaluated
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateValidated:
		return "validated"
	case StateSplit:
		return "split"
	case StateFitted:
		return "fitted"
	case StateEvaluated:
		return "evaluated"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config controls the training pipeline. Thresholds mirror the detector's
// historical defaults and are surfaced through configuration rather than
// hard-coded at call sites.
type Config struct {
	Vectorizer   features.Config
	Forest       forest.Config
	TestFraction float64
	Seed         int64
	MinExamples  int
}

// DefaultConfig returns the standard training configuration: 20% held out
// for testing and a soft minimum of 10 examples.
func DefaultConfig() Config {
	return Config{
		Vectorizer:   features.DefaultConfig(),
		Forest:       forest.DefaultConfig(),
		TestFraction: 0.2,
		Seed:         42,
		MinExamples:  10,
	}
}

// TrainedModel pairs the frozen vectorizer with the fitted forest. Built
// once by the pipeline and read-only afterwards.
type TrainedModel struct {
	Vectorizer *features.Vectorizer
	Forest     *forest.Forest
}

// Pipeline drives a dataset from load through validation, split, fit, and
// evaluation to a published TrainedModel.
type Pipeline struct {
	vectorizer *features.Vectorizer
	forest     *forest.Forest
	eval       *Evaluation
	raw        RawDataset
	dataset    model.Dataset
	train      model.Dataset
	test       model.Dataset
	cfg        Config
	state      State
}

// New creates an idle pipeline.
func New(cfg Config) *Pipeline {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = DefaultConfig().TestFraction
	}
	if cfg.MinExamples <= 0 {
		cfg.MinExamples = DefaultConfig().MinExamples
	}
	return &Pipeline{cfg: cfg, state: StateIdle}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// Load supplies the raw dataset. Idle → Loaded.
func (p *Pipeline) Load(raw RawDataset) error {
	if p.state != StateIdle {
		return fmt.Errorf("%w: load from %s", common.ErrInvalidTransition, p.state)
	}
	p.raw = raw
	p.state = StateLoaded

	slog.Info("Dataset loaded", "examples", len(raw.Examples))
	return nil
}

// Validate checks required columns and label values. Loaded → Validated on
// success; any violation is fatal and moves the pipeline to Failed so no
// partial model is ever trained.
func (p *Pipeline) Validate() error {
	if p.state != StateLoaded {
		return fmt.Errorf("%w: validate from %s", common.ErrInvalidTransition, p.state)
	}

	if err := p.validate(); err != nil {
		p.state = StateFailed
		return err
	}

	counts := p.dataset.LabelCounts()
	if len(p.dataset) < p.cfg.MinExamples {
		slog.Warn("Small dataset; accuracy will suffer",
			"examples", len(p.dataset), "recommended", p.cfg.MinExamples)
	}
	if counts[model.LabelPhishing] == 0 || counts[model.LabelLegitimate] == 0 {
		slog.Warn("Dataset contains a single class; the split cannot stratify",
			"phishing", counts[model.LabelPhishing],
			"legitimate", counts[model.LabelLegitimate])
	}

	p.state = StateValidated
	slog.Info("Dataset validated",
		"examples", len(p.dataset),
		"phishing", counts[model.LabelPhishing],
		"legitimate", counts[model.LabelLegitimate])
	return nil
}

func (p *Pipeline) validate() error {
	for _, col := range []string{ColumnText, ColumnLabel} {
		if !p.raw.HasColumn(col) {
			return fmt.Errorf("%w: dataset must contain %q", common.ErrMissingColumn, col)
		}
	}
	if len(p.raw.Examples) == 0 {
		return fmt.Errorf("%w: dataset is empty", common.ErrInvalidDataset)
	}

	dataset := make(model.Dataset, 0, len(p.raw.Examples))
	for i, ex := range p.raw.Examples {
		label, err := model.ParseLabel(ex.Label)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		dataset = append(dataset, model.LabeledExample{Text: ex.Text, Label: label})
	}

	p.dataset = dataset
	return nil
}

// Split partitions the dataset into stratified training and test subsets.
// Validated → Split.
func (p *Pipeline) Split() error {
	if p.state != StateValidated {
		return fmt.Errorf("%w: split from %s", common.ErrInvalidTransition, p.state)
	}

	p.train, p.test = StratifiedSplit(p.dataset, p.cfg.TestFraction, p.cfg.Seed)
	p.state = StateSplit

	slog.Info("Dataset split", "train", len(p.train), "test", len(p.test))
	return nil
}

// Fit fits the vectorizer on the training texts and then grows the forest
// on the vectorized training set. Split → Fitted.
func (p *Pipeline) Fit() error {
	if p.state != StateSplit {
		return fmt.Errorf("%w: fit from %s", common.ErrInvalidTransition, p.state)
	}

	vectorizer := features.NewVectorizer(p.cfg.Vectorizer)
	if err := vectorizer.Fit(p.train.Texts()); err != nil {
		return fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	vectors, err := vectorizer.TransformAll(p.train.Texts())
	if err != nil {
		return fmt.Errorf("failed to vectorize training set: %w", err)
	}

	labels := make([]model.Label, len(p.train))
	for i, ex := range p.train {
		labels[i] = ex.Label
	}

	forestCfg := p.cfg.Forest
	forestCfg.Seed = p.cfg.Seed
	fitted, err := forest.Fit(vectors, labels, forestCfg)
	if err != nil {
		return fmt.Errorf("failed to fit classifier: %w", err)
	}

	p.vectorizer = vectorizer
	p.forest = fitted
	p.state = StateFitted

	slog.Info("Model fitted", "vocabulary", vectorizer.Dim(), "trees", forestCfg.Trees)
	return nil
}

// Evaluate computes per-label metrics on the test subset. A nil Evaluation
// with no error means the test subset was empty and evaluation was skipped.
// Fitted → Evaluated either way.
func (p *Pipeline) Evaluate() (*Evaluation, error) {
	if p.state != StateFitted {
		return nil, fmt.Errorf("%w: evaluate from %s", common.ErrInvalidTransition, p.state)
	}

	if len(p.test) == 0 {
		p.state = StateEvaluated
		slog.Warn("Evaluation skipped: not enough test samples")
		return nil, nil
	}

	predicted := make([]model.Label, len(p.test))
	actual := make([]model.Label, len(p.test))
	for i, ex := range p.test {
		vec, err := p.vectorizer.Transform(ex.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to vectorize test example: %w", err)
		}
		label, err := p.forest.Predict(vec)
		if err != nil {
			return nil, fmt.Errorf("failed to classify test example: %w", err)
		}
		predicted[i] = label
		actual[i] = ex.Label
	}

	p.eval = evaluate(actual, predicted)
	p.state = StateEvaluated

	slog.Info("Model evaluated", "test", len(p.test), "accuracy", p.eval.Accuracy)
	return p.eval, nil
}

// Publish releases the trained model for serving. Evaluated → Ready; the
// transition is irreversible for the process lifetime.
func (p *Pipeline) Publish() (*TrainedModel, error) {
	if p.state != StateEvaluated {
		return nil, fmt.Errorf("%w: publish from %s", common.ErrInvalidTransition, p.state)
	}

	p.state = StateReady
	return &TrainedModel{Vectorizer: p.vectorizer, Forest: p.forest}, nil
}

// Run drives a raw dataset through the entire pipeline. The returned
// Evaluation is nil when the test subset was empty.
func (p *Pipeline) Run(raw RawDataset) (*TrainedModel, *Evaluation, error) {
	if err := p.Load(raw); err != nil {
		return nil, nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if err := p.Split(); err != nil {
		return nil, nil, err
	}
	if err := p.Fit(); err != nil {
		return nil, nil, err
	}
	eval, err := p.Evaluate()
	if err != nil {
		return nil, nil, err
	}
	trained, err := p.Publish()
	if err != nil {
		return nil, nil, err
	}
	return trained, eval, nil
}
