package training

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Veraticus/phish-sieve/internal/model"
)

// StratifiedSplit partitions the dataset into training and test subsets,
// preserving each label's proportion. Each class contributes
// round(fraction * classSize) test examples, clamped so that at least one
// example of every class stays in training. Deterministic for a given seed.
func StratifiedSplit(dataset model.Dataset, testFraction float64, seed int64) (train, test model.Dataset) {
	byLabel := make(map[model.Label][]int)
	for i, ex := range dataset {
		byLabel[ex.Label] = append(byLabel[ex.Label], i)
	}

	labels := make([]model.Label, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	rng := rand.New(rand.NewSource(seed))
	for _, label := range labels {
		indices := byLabel[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(math.Round(testFraction * float64(len(indices))))
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}

		for _, idx := range indices[:nTest] {
			test = append(test, dataset[idx])
		}
		for _, idx := range indices[nTest:] {
			train = append(train, dataset[idx])
		}
	}

	return train, test
}
