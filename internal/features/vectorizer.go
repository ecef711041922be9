package features

import (
	"errors"
	"math"
	"sort"
)

// Vectorizer errors.
var (
	ErrEmptyCorpus = errors.New("corpus cannot be empty")
	ErrNotFitted   = errors.New("vectorizer has not been fitted")
)

// Config controls vocabulary construction.
type Config struct {
	MaxFeatures int
	NGramMin    int
	NGramMax    int
}

// DefaultConfig mirrors the detector's training configuration: unigrams and
// bigrams over a vocabulary capped at 1000 terms.
func DefaultConfig() Config {
	return Config{
		MaxFeatures: 1000,
		NGramMin:    1,
		NGramMax:    2,
	}
}

// Vectorizer converts text into TF-IDF weighted vectors. Fit freezes the
// vocabulary; afterwards Transform always produces vectors of identical
// dimensionality, with unseen terms contributing zero weight.
type Vectorizer struct {
	index map[string]int
	terms []string
	idf   []float64
	cfg   Config
}

// NewVectorizer creates an unfitted vectorizer with the given configuration.
func NewVectorizer(cfg Config) *Vectorizer {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultConfig().MaxFeatures
	}
	if cfg.NGramMin <= 0 {
		cfg.NGramMin = 1
	}
	if cfg.NGramMax < cfg.NGramMin {
		cfg.NGramMax = cfg.NGramMin
	}
	return &Vectorizer{cfg: cfg}
}

// Fit builds the vocabulary and inverse-document-frequency weights from the
// corpus. Deterministic: vocabulary selection breaks frequency ties in
// lexicographic term order.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	totalCounts := make(map[string]int)
	docCounts := make(map[string]int)
	for _, doc := range corpus {
		terms := ngrams(tokenize(doc), v.cfg.NGramMin, v.cfg.NGramMax)
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			totalCounts[term]++
			if !seen[term] {
				docCounts[term]++
				seen[term] = true
			}
		}
	}

	candidates := make([]string, 0, len(totalCounts))
	for term := range totalCounts {
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if totalCounts[candidates[i]] != totalCounts[candidates[j]] {
			return totalCounts[candidates[i]] > totalCounts[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.cfg.MaxFeatures {
		candidates = candidates[:v.cfg.MaxFeatures]
	}
	sort.Strings(candidates)

	v.terms = candidates
	v.index = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	n := float64(len(corpus))
	for i, term := range candidates {
		v.index[term] = i
		df := float64(docCounts[term])
		v.idf[i] = math.Log((1+n)/(1+df)) + 1
	}

	return nil
}

// Transform produces the TF-IDF vector for one text. A text containing no
// known terms yields an all-zero vector of the frozen dimensionality.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if v.index == nil {
		return nil, ErrNotFitted
	}

	vec := make([]float64, len(v.terms))
	for _, term := range ngrams(tokenize(text), v.cfg.NGramMin, v.cfg.NGramMax) {
		if i, ok := v.index[term]; ok {
			vec[i] += v.idf[i]
		}
	}

	// L2 normalization
	var sumSq float64
	for _, w := range vec {
		sumSq += w * w
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec, nil
}

// TransformAll vectorizes a batch of texts in order.
func (v *Vectorizer) TransformAll(texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := v.Transform(text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dim returns the frozen vector dimensionality, zero before Fit.
func (v *Vectorizer) Dim() int {
	return len(v.terms)
}

// Vocabulary returns the frozen terms in index order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}
