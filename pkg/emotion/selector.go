package emotion

import "sort"

const (
	DefaultConfidenceThreshold = 0.5
	DefaultMaxEmotions         = 2
)

// SelectionPolicy decides which labels are confident enough to report.
type SelectionPolicy struct {
	// Threshold is exclusive: a score must be strictly greater.
	Threshold   float64
	MaxEmotions int
}

func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{Threshold: DefaultConfidenceThreshold, MaxEmotions: DefaultMaxEmotions}
}

// Select keeps scores above the threshold, highest first, capped at
// MaxEmotions. An empty result means no confident emotion.
func (p SelectionPolicy) Select(scores []Score) []Score {
	ranked := append([]Score(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})

	out := make([]Score, 0, p.MaxEmotions)
	for _, s := range ranked {
		if len(out) >= p.MaxEmotions {
			break
		}
		if s.Probability > p.Threshold {
			out = append(out, s)
		}
	}
	return out
}

// Primary returns the first selected emotion.
func Primary(selected []Score) (Score, bool) {
	if len(selected) == 0 {
		return Score{}, false
	}
	return selected[0], true
}
