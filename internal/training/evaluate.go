package training

import (
	"github.com/Veraticus/phish-sieve/internal/model"
)

// Metrics holds per-label evaluation results.
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation summarizes classifier performance on the held-out test subset.
type Evaluation struct {
	PerLabel map[model.Label]Metrics
	Accuracy float64
	Total    int
}

// evaluate computes per-label precision, recall and F1 from predicted
// versus actual labels.
func evaluate(actual, predicted []model.Label) *Evaluation {
	truePos := make(map[model.Label]int)
	falsePos := make(map[model.Label]int)
	falseNeg := make(map[model.Label]int)
	support := make(map[model.Label]int)

	correct := 0
	for i, want := range actual {
		got := predicted[i]
		support[want]++
		if got == want {
			truePos[want]++
			correct++
		} else {
			falsePos[got]++
			falseNeg[want]++
		}
	}

	eval := &Evaluation{
		PerLabel: make(map[model.Label]Metrics, len(model.Labels())),
		Total:    len(actual),
	}
	if len(actual) > 0 {
		eval.Accuracy = float64(correct) / float64(len(actual))
	}

	for _, label := range model.Labels() {
		m := Metrics{Support: support[label]}
		if denom := truePos[label] + falsePos[label]; denom > 0 {
			m.Precision = float64(truePos[label]) / float64(denom)
		}
		if denom := truePos[label] + falseNeg[label]; denom > 0 {
			m.Recall = float64(truePos[label]) / float64(denom)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		eval.PerLabel[label] = m
	}

	return eval
}
