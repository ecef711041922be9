package forest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/phish-sieve/internal/model"
)

// separableData builds two well-separated clusters, one per label.
func separableData(n int) ([][]float64, []model.Label) {
	rng := rand.New(rand.NewSource(7))
	vectors := make([][]float64, 0, 2*n)
	labels := make([]model.Label, 0, 2*n)

	for i := 0; i < n; i++ {
		vectors = append(vectors, []float64{0.8 + rng.Float64()*0.2, rng.Float64() * 0.1, rng.Float64() * 0.05})
		labels = append(labels, model.LabelPhishing)

		vectors = append(vectors, []float64{rng.Float64() * 0.1, 0.8 + rng.Float64()*0.2, rng.Float64() * 0.05})
		labels = append(labels, model.LabelLegitimate)
	}

	return vectors, labels
}

func TestForestPredictsSeparableData(t *testing.T) {
	vectors, labels := separableData(20)
	f, err := Fit(vectors, labels, Config{Trees: 50, MaxDepth: 5, Seed: 42})
	require.NoError(t, err)

	got, err := f.Predict([]float64{0.9, 0.05, 0.01})
	require.NoError(t, err)
	assert.Equal(t, model.LabelPhishing, got)

	got, err = f.Predict([]float64{0.02, 0.95, 0.01})
	require.NoError(t, err)
	assert.Equal(t, model.LabelLegitimate, got)
}

func TestForestProbabilitiesSumToOne(t *testing.T) {
	vectors, labels := separableData(10)
	f, err := Fit(vectors, labels, Config{Trees: 100, MaxDepth: 10, Seed: 42})
	require.NoError(t, err)

	inputs := [][]float64{
		{0.9, 0.0, 0.0},
		{0.0, 0.9, 0.0},
		{0.5, 0.5, 0.5},
		{0.0, 0.0, 0.0},
	}
	for _, vec := range inputs {
		probs, err := f.Probabilities(vec)
		require.NoError(t, err)
		require.Len(t, probs, 2)

		sum := 0.0
		for label, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0, "label %s", label)
			assert.LessOrEqual(t, p, 1.0, "label %s", label)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestForestDeterministicForSeed(t *testing.T) {
	vectors, labels := separableData(15)

	a, err := Fit(vectors, labels, Config{Trees: 30, MaxDepth: 8, Seed: 42})
	require.NoError(t, err)
	b, err := Fit(vectors, labels, Config{Trees: 30, MaxDepth: 8, Seed: 42})
	require.NoError(t, err)

	probe := []float64{0.4, 0.3, 0.2}
	probsA, err := a.Probabilities(probe)
	require.NoError(t, err)
	probsB, err := b.Probabilities(probe)
	require.NoError(t, err)
	assert.Equal(t, probsA, probsB)
}

func TestForestProgressCallback(t *testing.T) {
	vectors, labels := separableData(5)

	grown := 0
	_, err := Fit(vectors, labels, Config{Trees: 25, MaxDepth: 3, Seed: 1, Progress: func() { grown++ }})
	require.NoError(t, err)
	assert.Equal(t, 25, grown)
}

func TestForestRejectsEmptyTrainingSet(t *testing.T) {
	_, err := Fit(nil, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoTrainingData)
}

func TestForestRejectsDimensionMismatch(t *testing.T) {
	vectors, labels := separableData(5)
	f, err := Fit(vectors, labels, Config{Trees: 10, MaxDepth: 3, Seed: 1})
	require.NoError(t, err)

	_, err = f.Predict([]float64{1.0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestGini(t *testing.T) {
	assert.Equal(t, 0.0, gini([]int{4, 0}, 4))
	assert.InDelta(t, 0.5, gini([]int{2, 2}, 4), 1e-9)
	assert.True(t, math.Abs(gini([]int{3, 1}, 4)-0.375) < 1e-9)
}

func TestMajorityTieBreaksLow(t *testing.T) {
	// Equal counts resolve to the first class, the lexicographically
	// smaller label.
	assert.Equal(t, 0, majority([]int{5, 5}))
}
