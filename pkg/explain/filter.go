package explain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinWordLength is the shortest word kept by WordFilter.
const DefaultMinWordLength = 3

// WordFilter drops words that carry little meaning on their own:
// stopwords, anything with a non-letter, and very short words.
type WordFilter struct {
	stops  *Stoplist
	minLen int
}

func NewWordFilter(stops *Stoplist) *WordFilter {
	if stops == nil {
		stops = NewStoplist(nil)
	}
	return &WordFilter{stops: stops, minLen: DefaultMinWordLength}
}

// Keep compares on the lowercased word.
func (f *WordFilter) Keep(word string) bool {
	lw := strings.ToLower(word)
	if utf8.RuneCountInString(lw) < f.minLen {
		return false
	}
	for _, r := range lw {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return !f.stops.IsStop(lw)
}

// Apply returns the kept words in their original order.
func (f *WordFilter) Apply(words []Word) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if f.Keep(w.Text) {
			out = append(out, w)
		}
	}
	return out
}
