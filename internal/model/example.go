package model

// LabeledExample is a single training example: raw message text and its
// human-assigned label. Immutable once loaded.
type LabeledExample struct {
	Text  string
	Label Label
}

// Dataset is an ordered collection of labeled examples.
type Dataset []LabeledExample

// Texts returns the example texts in dataset order.
func (d Dataset) Texts() []string {
	texts := make([]string, len(d))
	for i, ex := range d {
		texts[i] = ex.Text
	}
	return texts
}

// LabelCounts returns the number of examples per label.
func (d Dataset) LabelCounts() map[Label]int {
	counts := make(map[Label]int, 2)
	for _, ex := range d {
		counts[ex.Label]++
	}
	return counts
}
