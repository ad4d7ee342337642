package explain

import (
	"math"
	"strings"

	"ai-journaling-be/pkg/emotion/tokenizer"
)

// Word is a whole word rebuilt from subword tokens. Score is the score of
// the word's first token; continuation scores are not aggregated.
type Word struct {
	Text      string
	Score     float64
	Magnitude float64
	// Position is the index of the first token in the token sequence.
	Position int
}

// Reconstruction is the output of Reconstruct. Truncated is set when the
// score vector was shorter than the token sequence and the scan stopped early.
type Reconstruction struct {
	Words     []Word
	Truncated bool
}

type mergeState int

const (
	noOpenWord mergeState = iota
	openWord
)

// apostrophes are the quote tokens that glue onto an open word. The last
// entry is the UTF-8 right quote mis-decoded as Windows-1252.
var apostrophes = map[string]struct{}{
	"'":   {},
	"’":   {},
	"ʼ":   {},
	"â€™": {},
}

func isApostrophe(tok string) bool {
	_, ok := apostrophes[tok]
	return ok
}

// merger is the token merging state machine.
type merger struct {
	state mergeState
	buf   strings.Builder
	score float64
	pos   int
	words []Word
}

func (m *merger) feed(tok string, score float64, pos int) {
	if tokenizer.IsSpecial(tok) {
		return
	}

	switch {
	case len(tok) > 2 && strings.HasPrefix(tok, "##"):
		if m.state == openWord {
			m.buf.WriteString(tok[2:])
			return
		}
		m.open(tok[2:], score, pos)
	case m.state == openWord && isApostrophe(tok):
		m.buf.WriteString(tok)
	default:
		m.flush()
		m.open(tok, score, pos)
	}
}

func (m *merger) open(text string, score float64, pos int) {
	m.buf.Reset()
	m.buf.WriteString(text)
	m.score = score
	m.pos = pos
	m.state = openWord
}

func (m *merger) flush() {
	if m.state != openWord {
		return
	}
	m.words = append(m.words, Word{
		Text:      m.buf.String(),
		Score:     m.score,
		Magnitude: math.Abs(m.score),
		Position:  m.pos,
	})
	m.buf.Reset()
	m.state = noOpenWord
}

// Reconstruct merges tokens into words in left-to-right order, aligned with
// scores. Boundary and padding tokens are skipped.
func Reconstruct(tokens []string, scores []float64) Reconstruction {
	n := len(tokens)
	truncated := false
	if len(scores) < n {
		n = len(scores)
		truncated = true
	}

	m := &merger{}
	for i := 0; i < n; i++ {
		m.feed(tokens[i], scores[i], i)
	}
	m.flush()

	words := m.words
	if words == nil {
		words = []Word{}
	}
	return Reconstruction{Words: words, Truncated: truncated}
}
