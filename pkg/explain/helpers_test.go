package explain

import (
	"context"
	"testing"
	"time"

	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/emotion/tokenizer"

	"github.com/stretchr/testify/require"
)

var binaryLabels = emotion.MustLabelSet("other", "joy")

func newTestTokenizer(t *testing.T) *tokenizer.Tokenizer {
	t.Helper()
	v, err := tokenizer.NewVocab([]string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]", "!", "'", ".",
		"i", "am", "so", "happy", "and", "excited", "about", "this", "not",
		"feeling", "today", "don", "t", "un", "##believ", "##able", "play", "##ing",
	})
	require.NoError(t, err)
	tok, err := tokenizer.New(v, tokenizer.DefaultOptions())
	require.NoError(t, err)
	return tok
}

// scoreModel scores an encoding as P(joy) = fn(present lowercase tokens).
type scoreModel struct {
	tok   *tokenizer.Tokenizer
	fn    func(present map[string]bool) float64
	delay time.Duration
	err   error
}

func (m *scoreModel) Encode(text string) tokenizer.Encoding { return m.tok.Encode(text) }

func (m *scoreModel) Mask(enc tokenizer.Encoding, keep []bool) tokenizer.Encoding {
	return m.tok.Mask(enc, keep)
}

func (m *scoreModel) Probabilities(ctx context.Context, batch []tokenizer.Encoding) ([][]float64, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float64, len(batch))
	for i, enc := range batch {
		present := make(map[string]bool)
		for j, tok := range enc.Tokens {
			if !enc.Special[j] && tok != tokenizer.MaskToken {
				present[lower(tok)] = true
			}
		}
		p := m.fn(present)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

// additive returns a value function whose Shapley values are exactly the
// weights.
func additive(base float64, weights map[string]float64) func(map[string]bool) float64 {
	return func(present map[string]bool) float64 {
		v := base
		for w := range present {
			v += weights[w]
		}
		return v
	}
}
