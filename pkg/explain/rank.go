package explain

import (
	"math"
	"sort"
)

const (
	TopWordsFull  = 8
	TopWordsChart = 5
)

// RankedWord is a contributing word ready for display.
type RankedWord struct {
	Word       string  `json:"word"`
	Score      float64 `json:"score"`
	Magnitude  float64 `json:"magnitude"`
	IsPositive bool    `json:"is_positive"`
}

// Rank orders words by absolute score, highest first, and keeps the first k.
// Ties keep their left-to-right order.
func Rank(words []Word, k int) []RankedWord {
	if k <= 0 || len(words) == 0 {
		return []RankedWord{}
	}

	sorted := append([]Word(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Score) > math.Abs(sorted[j].Score)
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}

	out := make([]RankedWord, len(sorted))
	for i, w := range sorted {
		out[i] = RankedWord{
			Word:       w.Text,
			Score:      w.Score,
			Magnitude:  math.Abs(w.Score),
			IsPositive: w.Score > 0,
		}
	}
	return out
}
