package emotion

import (
	"math"
	"sort"
)

// Score is one label's probability.
type Score struct {
	Label       string  `json:"label"`
	Probability float64 `json:"confidence"`
}

// Prediction is the classifier output for one text.
type Prediction struct {
	// Scores covers every label, sorted by probability descending.
	Scores []Score
	// Logits are the raw pre-softmax outputs in label-index order.
	Logits []float64
	// Truncated is set when the text exceeded the model's input limit.
	Truncated bool
}

// Top returns the highest scoring label.
func (p *Prediction) Top() (Score, bool) {
	if p == nil || len(p.Scores) == 0 {
		return Score{}, false
	}
	return p.Scores[0], true
}

// Probability returns the probability assigned to label.
func (p *Prediction) Probability(label string) float64 {
	label = normalizeLabel(label)
	for _, s := range p.Scores {
		if s.Label == label {
			return s.Probability
		}
	}
	return 0
}

// TopN returns at most n leading scores.
func (p *Prediction) TopN(n int) []Score {
	if n > len(p.Scores) {
		n = len(p.Scores)
	}
	if n <= 0 {
		return []Score{}
	}
	return append([]Score(nil), p.Scores[:n]...)
}

// Softmax converts logits into probabilities. The max logit is subtracted
// first so large values do not overflow.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, v := range logits {
		e := math.Exp(v - maxVal)
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// rankScores pairs probabilities with labels and sorts them descending.
// Ties keep label-index order.
func rankScores(labels *LabelSet, probs []float64) []Score {
	scores := make([]Score, len(probs))
	for i, p := range probs {
		name, _ := labels.Name(i)
		scores[i] = Score{Label: name, Probability: p}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})
	return scores
}
