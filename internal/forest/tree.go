// Package forest implements a seeded random-forest classifier over dense
// feature vectors.
package forest

import (
	"math"
	"math/rand"
	"sort"
)

// node is a single decision-tree node. Leaves carry a class index; internal
// nodes split on feature <= threshold.
type node struct {
	left      *node
	right     *node
	threshold float64
	feature   int
	class     int
	leaf      bool
}

type treeBuilder struct {
	rng      *rand.Rand
	vectors  [][]float64
	classes  []int
	nClasses int
	maxDepth int
	mtry     int
}

func (b *treeBuilder) build(samples []int, depth int) *node {
	counts := make([]int, b.nClasses)
	for _, s := range samples {
		counts[b.classes[s]]++
	}

	if depth >= b.maxDepth || len(samples) < 2 || isPure(counts) {
		return &node{leaf: true, class: majority(counts)}
	}

	feature, threshold, ok := b.bestSplit(samples, counts)
	if !ok {
		return &node{leaf: true, class: majority(counts)}
	}

	var left, right []int
	for _, s := range samples {
		if b.vectors[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// bestSplit searches a random ordering of features for the split with the
// highest Gini gain. It keeps searching past mtry candidates until at least
// one valid split has been seen, so a tree only goes leaf-early when the
// sample is genuinely unsplittable.
func (b *treeBuilder) bestSplit(samples []int, counts []int) (int, float64, bool) {
	parentImpurity := gini(counts, len(samples))
	if parentImpurity == 0 {
		return 0, 0, false
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	examined := 0

	for _, feature := range b.rng.Perm(len(b.vectors[samples[0]])) {
		gain, threshold, ok := b.splitFeature(samples, feature, parentImpurity)
		if !ok {
			continue // constant feature, does not count against mtry
		}
		examined++
		if gain > bestGain {
			bestGain = gain
			bestFeature = feature
			bestThreshold = threshold
		}
		if examined >= b.mtry && bestFeature >= 0 {
			break
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// splitFeature finds the best threshold for one feature, returning its Gini
// gain. ok is false when the feature is constant across the samples.
func (b *treeBuilder) splitFeature(samples []int, feature int, parentImpurity float64) (float64, float64, bool) {
	type pair struct {
		value float64
		class int
	}
	pairs := make([]pair, len(samples))
	for i, s := range samples {
		pairs[i] = pair{value: b.vectors[s][feature], class: b.classes[s]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	if pairs[0].value == pairs[len(pairs)-1].value {
		return 0, 0, false
	}

	total := len(pairs)
	leftCounts := make([]int, b.nClasses)
	rightCounts := make([]int, b.nClasses)
	for _, p := range pairs {
		rightCounts[p.class]++
	}

	bestGain := 0.0
	bestThreshold := 0.0
	found := false
	for i := 0; i < total-1; i++ {
		leftCounts[pairs[i].class]++
		rightCounts[pairs[i].class]--
		if pairs[i].value == pairs[i+1].value {
			continue
		}

		nLeft := i + 1
		nRight := total - nLeft
		weighted := (float64(nLeft)*gini(leftCounts, nLeft) +
			float64(nRight)*gini(rightCounts, nRight)) / float64(total)
		gain := parentImpurity - weighted
		if !found || gain > bestGain {
			bestGain = gain
			bestThreshold = (pairs[i].value + pairs[i+1].value) / 2
			found = true
		}
	}

	return bestGain, bestThreshold, found
}

func (n *node) classify(vec []float64) int {
	for !n.leaf {
		if vec[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.class
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// majority returns the most frequent class index; ties resolve to the
// lowest index, which corresponds to the lexicographically smaller label.
func majority(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

func defaultMtry(dim int) int {
	return int(math.Max(1, math.Round(math.Sqrt(float64(dim)))))
}
