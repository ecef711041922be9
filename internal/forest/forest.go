package forest

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/Veraticus/phish-sieve/internal/model"
)

// Classifier errors.
var (
	ErrNoTrainingData    = errors.New("no training data")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Config controls ensemble construction. The same configuration and seed
// always grow the same forest.
type Config struct {
	Progress func()
	Trees    int
	MaxDepth int
	Seed     int64
}

// DefaultConfig returns the detector's training configuration: 100 trees
// capped at depth 10.
func DefaultConfig() Config {
	return Config{
		Trees:    100,
		MaxDepth: 10,
		Seed:     42,
	}
}

// Forest is a fitted ensemble of decision trees. Read-only after Fit.
type Forest struct {
	trees  []*node
	labels []model.Label
	dim    int
}

// Fit grows the ensemble on the given vectors and labels. Each tree is
// trained on a bootstrap sample drawn from a rand source seeded by
// cfg.Seed, so results are reproducible.
func Fit(vectors [][]float64, labels []model.Label, cfg Config) (*Forest, error) {
	if len(vectors) == 0 || len(vectors) != len(labels) {
		return nil, ErrNoTrainingData
	}
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultConfig().Trees
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}

	classLabels := distinctLabels(labels)
	classIndex := make(map[model.Label]int, len(classLabels))
	for i, l := range classLabels {
		classIndex[l] = i
	}
	classes := make([]int, len(labels))
	for i, l := range labels {
		classes[i] = classIndex[l]
	}

	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d features, want %d", ErrDimensionMismatch, i, len(vec), dim)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	builder := &treeBuilder{
		rng:      rng,
		vectors:  vectors,
		classes:  classes,
		nClasses: len(classLabels),
		maxDepth: cfg.MaxDepth,
		mtry:     defaultMtry(dim),
	}

	trees := make([]*node, cfg.Trees)
	n := len(vectors)
	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		trees[t] = builder.build(sample, 0)
		if cfg.Progress != nil {
			cfg.Progress()
		}
	}

	return &Forest{trees: trees, labels: classLabels, dim: dim}, nil
}

// Predict returns the majority-vote label for one vector. Vote ties resolve
// to the lexicographically smaller label.
func (f *Forest) Predict(vec []float64) (model.Label, error) {
	votes, err := f.votes(vec)
	if err != nil {
		return "", err
	}
	return f.labels[majority(votes)], nil
}

// Probabilities returns each label's share of the ensemble vote. The shares
// always sum to 1 and cover every label seen during training.
func (f *Forest) Probabilities(vec []float64) (map[model.Label]float64, error) {
	votes, err := f.votes(vec)
	if err != nil {
		return nil, err
	}

	probs := make(map[model.Label]float64, len(f.labels))
	for i, label := range f.labels {
		probs[label] = float64(votes[i]) / float64(len(f.trees))
	}
	return probs, nil
}

func (f *Forest) votes(vec []float64) ([]int, error) {
	if len(vec) != f.dim {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(vec), f.dim)
	}
	votes := make([]int, len(f.labels))
	for _, tree := range f.trees {
		votes[tree.classify(vec)]++
	}
	return votes, nil
}

// Labels returns the class labels the forest was trained on, in vote order.
func (f *Forest) Labels() []model.Label {
	out := make([]model.Label, len(f.labels))
	copy(out, f.labels)
	return out
}

func distinctLabels(labels []model.Label) []model.Label {
	seen := make(map[model.Label]bool)
	var distinct []model.Label
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			distinct = append(distinct, l)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })
	return distinct
}
