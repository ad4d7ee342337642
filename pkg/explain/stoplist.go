package explain

import (
	"sort"
	"strings"
)

// Stoplist is a set of lowercase words that never count as contributing
// words. It is not safe for concurrent mutation; build it at startup.
type Stoplist struct {
	stops map[string]struct{}
}

func NewStoplist(words []string) *Stoplist {
	s := &Stoplist{stops: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// EnglishStoplist returns the NLTK English stopword list.
func EnglishStoplist() *Stoplist {
	return NewStoplist(englishStopwords)
}

func (s *Stoplist) IsStop(word string) bool {
	_, ok := s.stops[strings.ToLower(word)]
	return ok
}

func (s *Stoplist) Add(word string) {
	if w := strings.ToLower(strings.TrimSpace(word)); w != "" {
		s.stops[w] = struct{}{}
	}
}

func (s *Stoplist) Remove(word string) {
	delete(s.stops, strings.ToLower(word))
}

// All returns the stopwords sorted.
func (s *Stoplist) All() []string {
	out := make([]string, 0, len(s.stops))
	for w := range s.stops {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (s *Stoplist) Len() int { return len(s.stops) }

var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "she's", "her", "hers", "herself", "it", "it's",
	"its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "that'll", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do",
	"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or", "because",
	"as", "until", "while", "of", "at", "by", "for", "with", "about", "against",
	"between", "into", "through", "during", "before", "after", "above", "below", "to",
	"from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how", "all",
	"any", "both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
	"can", "will", "just", "don", "don't", "should", "should've", "now", "d", "ll",
	"m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
	"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't", "haven",
	"haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn", "mustn't",
	"needn", "needn't", "shan", "shan't", "shouldn", "shouldn't", "wasn", "wasn't",
	"weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}
