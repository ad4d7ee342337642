package explain

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-journaling-be/pkg/emotion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainAdditiveModelRecoversWeights(t *testing.T) {
	weights := map[string]float64{"happy": 0.4, "excited": 0.3, "so": 0.05, "this": -0.02}
	model := &scoreModel{tok: newTestTokenizer(t), fn: additive(0.1, weights)}
	e := New(model, binaryLabels, Config{Permutations: 4, Seed: 42}, nil)

	attr, err := e.Explain(context.Background(), "I am so happy and excited about this!", 1)
	require.NoError(t, err)

	assert.Equal(t, "joy", attr.Label)
	require.Len(t, attr.Values, len(attr.Tokens))
	for i, tok := range attr.Tokens {
		want := weights[lower(tok)]
		assert.InDelta(t, want, attr.Values[i], 1e-9, "token %q", tok)
	}
	assert.Equal(t, "[CLS]", attr.Tokens[0])
	assert.Zero(t, attr.Values[0])
	assert.Zero(t, attr.Values[len(attr.Values)-1])

	assert.InDelta(t, 0.1, attr.BaseValue, 1e-9)
	assert.InDelta(t, 0.83, attr.FullValue, 1e-9)
	assert.InDelta(t, attr.FullValue-attr.BaseValue, attr.Sum(), 1e-9)
}

func TestExplainInteractionModel(t *testing.T) {
	// "not" flips the effect of "happy": a value function with interactions.
	fn := func(p map[string]bool) float64 {
		switch {
		case p["happy"] && p["not"]:
			return 0.2
		case p["happy"]:
			return 0.9
		default:
			return 0.3
		}
	}
	model := &scoreModel{tok: newTestTokenizer(t), fn: fn}
	e := New(model, binaryLabels, Config{Permutations: 8, Seed: 7, Workers: 3}, nil)

	text := "I am not happy today"
	first, err := e.Explain(context.Background(), text, 1)
	require.NoError(t, err)
	second, err := e.Explain(context.Background(), text, 1)
	require.NoError(t, err)

	// Efficiency holds for every sample count.
	assert.InDelta(t, 0.2-0.3, first.Sum(), 1e-9)
	// A fixed seed reproduces the estimate.
	assert.Equal(t, first.Values, second.Values)

	notIdx, happyIdx := 3, 4
	require.Equal(t, "not", first.Tokens[notIdx])
	require.Equal(t, "happy", first.Tokens[happyIdx])
	assert.Less(t, first.Values[notIdx], 0.0)
	for i, tok := range first.Tokens {
		if tok != "not" && tok != "happy" {
			assert.InDelta(t, 0, first.Values[i], 1e-9, "token %q", tok)
		}
	}
}

func TestExplainSeedsAgreeApproximately(t *testing.T) {
	fn := func(p map[string]bool) float64 {
		if p["happy"] && p["excited"] {
			return 0.95
		}
		if p["happy"] || p["excited"] {
			return 0.6
		}
		return 0.1
	}
	model := &scoreModel{tok: newTestTokenizer(t), fn: fn}

	a, err := New(model, binaryLabels, Config{Permutations: 20, Seed: 1}, nil).
		Explain(context.Background(), "so happy and excited", 1)
	require.NoError(t, err)
	b, err := New(model, binaryLabels, Config{Permutations: 20, Seed: 2}, nil).
		Explain(context.Background(), "so happy and excited", 1)
	require.NoError(t, err)

	// Symmetric players: both estimates split the gain evenly.
	for i := range a.Values {
		assert.InDelta(t, a.Values[i], b.Values[i], 1e-9)
	}
	assert.InDelta(t, 0.425, a.Values[2], 1e-9)
}

func TestExplainRejectsUnknownLabel(t *testing.T) {
	model := &scoreModel{tok: newTestTokenizer(t), fn: additive(0, nil)}
	e := New(model, binaryLabels, Config{}, nil)

	_, err := e.Explain(context.Background(), "happy", 5)
	assert.ErrorIs(t, err, emotion.ErrLabelNotExplainable)

	_, ok := e.ExplainableIndex("surprise")
	assert.False(t, ok)
	idx, ok := e.ExplainableIndex("Joy")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestExplainEmptyInput(t *testing.T) {
	model := &scoreModel{tok: newTestTokenizer(t), fn: additive(0, nil)}
	e := New(model, binaryLabels, Config{}, nil)

	_, err := e.Explain(context.Background(), "  ", 1)
	assert.ErrorIs(t, err, emotion.ErrEmptyInput)

	attr, err := e.Explain(context.Background(), "\u0000", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"[CLS]", "[SEP]"}, attr.Tokens)
	assert.Equal(t, []float64{0, 0}, attr.Values)
}

func TestExplainTimesOut(t *testing.T) {
	model := &scoreModel{tok: newTestTokenizer(t), fn: additive(0, nil), delay: time.Second}
	e := New(model, binaryLabels, Config{Budget: 20 * time.Millisecond, Seed: 1}, nil)

	start := time.Now()
	_, err := e.Explain(context.Background(), "so happy today", 1)
	assert.ErrorIs(t, err, emotion.ErrAttributionTimeout)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestExplainWrapsModelFailure(t *testing.T) {
	boom := errors.New("session lost")
	model := &scoreModel{tok: newTestTokenizer(t), fn: additive(0, nil), err: boom}
	e := New(model, binaryLabels, Config{Seed: 1}, nil)

	_, err := e.Explain(context.Background(), "so happy today", 1)
	assert.ErrorIs(t, err, emotion.ErrAttributionFailure)
	assert.ErrorIs(t, err, boom)
}

func TestExplainCallerCancellation(t *testing.T) {
	model := &scoreModel{tok: newTestTokenizer(t), fn: additive(0, nil), delay: time.Second}
	e := New(model, binaryLabels, Config{Seed: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Explain(ctx, "so happy today", 1)
	assert.ErrorIs(t, err, emotion.ErrAttributionFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPermutationPairs(t *testing.T) {
	fwd := permutation(9, 4, 6)
	rev := permutation(9, 5, 6)
	require.Len(t, fwd, 6)
	for i := range fwd {
		assert.Equal(t, fwd[i], rev[len(rev)-1-i])
	}
	assert.Equal(t, fwd, permutation(9, 4, 6))
}

func TestNewRoundsPermutationsUp(t *testing.T) {
	e := New(nil, binaryLabels, Config{Permutations: 3}, nil)
	assert.Equal(t, 4, e.cfg.Permutations)
}
