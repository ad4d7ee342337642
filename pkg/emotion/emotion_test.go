package emotion

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ai-journaling-be/pkg/emotion/tokenizer"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLabels = MustLabelSet("sadness", "joy", "love", "anger", "fear", "surprise")

type fixedModel struct {
	logits []float32
	err    error
	calls  int
	mu     sync.Mutex
}

func (m *fixedModel) Logits(_ context.Context, batch []tokenizer.Encoding) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(batch))
	for i := range batch {
		out[i] = append([]float32(nil), m.logits...)
	}
	return out, nil
}

func (m *fixedModel) Close() error { return nil }

func testTokenizer(t *testing.T) *tokenizer.Tokenizer {
	t.Helper()
	v, err := tokenizer.NewVocab([]string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]", "i", "am", "happy", "today"})
	require.NoError(t, err)
	tok, err := tokenizer.New(v, tokenizer.DefaultOptions())
	require.NoError(t, err)
	return tok
}

func TestSoftmaxSumsToOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 0; n < 200; n++ {
		logits := make([]float64, 1+rng.IntN(10))
		for i := range logits {
			logits[i] = (rng.Float64() - 0.5) * 200
		}
		sum := 0.0
		for _, p := range Softmax(logits) {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-4)
	}
	assert.Nil(t, Softmax(nil))
}

func TestSoftmaxLargeLogits(t *testing.T) {
	probs := Softmax([]float64{1000, 1000})
	assert.InDelta(t, 0.5, probs[0], 1e-9)
	assert.False(t, math.IsNaN(probs[1]))
}

func TestClassifierPredict(t *testing.T) {
	model := &fixedModel{logits: []float32{0.1, 3.2, 0.4, -1, 0.2, 1.5}}
	c, err := NewClassifier(testTokenizer(t), model, testLabels)
	require.NoError(t, err)

	pred, err := c.Predict(context.Background(), "I am happy today")
	require.NoError(t, err)

	require.Len(t, pred.Scores, testLabels.Len())
	assert.Equal(t, "joy", pred.Scores[0].Label)
	assert.Equal(t, "surprise", pred.Scores[1].Label)
	assert.Equal(t, "anger", pred.Scores[len(pred.Scores)-1].Label)

	sum := 0.0
	for i, s := range pred.Scores {
		sum += s.Probability
		if i > 0 {
			assert.LessOrEqual(t, s.Probability, pred.Scores[i-1].Probability)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
	assert.Len(t, pred.Logits, testLabels.Len())
	assert.InDelta(t, 3.2, pred.Logits[1], 1e-6)
	assert.False(t, pred.Truncated)
}

func TestClassifierRejectsBlankInput(t *testing.T) {
	model := &fixedModel{logits: make([]float32, 6)}
	c, err := NewClassifier(testTokenizer(t), model, testLabels)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := c.Predict(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Zero(t, model.calls)
}

func TestClassifierLogitShapeMismatch(t *testing.T) {
	c, err := NewClassifier(testTokenizer(t), &fixedModel{logits: []float32{1, 2}}, testLabels)
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "happy")
	assert.ErrorContains(t, err, "2 logits for 6 labels")
}

func TestClassifierBackendError(t *testing.T) {
	boom := errors.New("session closed")
	c, err := NewClassifier(testTokenizer(t), &fixedModel{err: boom}, testLabels)
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "happy")
	assert.ErrorIs(t, err, boom)
}

func TestClassifierProbabilitiesBatch(t *testing.T) {
	tok := testTokenizer(t)
	c, err := NewClassifier(tok, &fixedModel{logits: []float32{0, 0, 0, 0, 0, 0}}, testLabels)
	require.NoError(t, err)

	rows, err := c.Probabilities(context.Background(), []tokenizer.Encoding{tok.Encode("happy"), tok.Encode("today")})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		for _, p := range row {
			assert.InDelta(t, 1.0/6, p, 1e-9)
		}
	}
}

func TestSelectionPolicy(t *testing.T) {
	tests := []struct {
		name   string
		scores []Score
		want   []Score
	}{
		{
			name:   "two confident",
			scores: []Score{{"joy", 0.91}, {"surprise", 0.60}, {"sadness", 0.02}},
			want:   []Score{{"joy", 0.91}, {"surprise", 0.60}},
		},
		{
			name:   "capped at two",
			scores: []Score{{"joy", 0.7}, {"love", 0.9}, {"surprise", 0.8}},
			want:   []Score{{"love", 0.9}, {"surprise", 0.8}},
		},
		{
			name:   "threshold is exclusive",
			scores: []Score{{"joy", 0.5}, {"sadness", 0.5}},
			want:   []Score{},
		},
		{
			name:   "nothing confident",
			scores: []Score{{"joy", 0.3}, {"fear", 0.25}, {"anger", 0.45}},
			want:   []Score{},
		},
		{
			name:   "empty input",
			scores: nil,
			want:   []Score{},
		},
	}

	policy := DefaultSelectionPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Select(tt.scores)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Select mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectionPolicyBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	policy := DefaultSelectionPolicy()
	for n := 0; n < 500; n++ {
		logits := make([]float64, 6)
		for i := range logits {
			logits[i] = rng.NormFloat64() * 3
		}
		scores := rankScores(testLabels, Softmax(logits))

		got := policy.Select(scores)
		assert.LessOrEqual(t, len(got), 2)
		for _, s := range got {
			assert.Greater(t, s.Probability, 0.5)
		}
	}
}

func TestLabelSet(t *testing.T) {
	ls, err := NewLabelSet([]string{"Sadness", " JOY "})
	require.NoError(t, err)

	assert.Equal(t, []string{"sadness", "joy"}, ls.Names())
	idx, ok := ls.Index("Joy")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = ls.Name(2)
	assert.False(t, ok)

	_, err = NewLabelSet([]string{"joy", "Joy"})
	assert.Error(t, err)
	_, err = NewLabelSet([]string{"joy", ""})
	assert.Error(t, err)
	_, err = NewLabelSet(nil)
	assert.Error(t, err)
}

func TestLoadLabelSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"id2label": {"1": "joy", "0": "sadness", "2": "love"}}`), 0o600))
	ls, err := LoadLabelSet(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sadness", "joy", "love"}, ls.Names())

	require.NoError(t, os.WriteFile(path, []byte(`{"label2id": {"anger": 1, "fear": 0}}`), 0o600))
	ls, err = LoadLabelSet(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"fear", "anger"}, ls.Names())

	require.NoError(t, os.WriteFile(path, []byte(`{"id2label": {"0": "joy", "5": "fear"}}`), 0o600))
	_, err = LoadLabelSet(path)
	assert.Error(t, err)
}

func TestLoaderRunsOnce(t *testing.T) {
	var calls int
	c := &Classifier{}
	l := NewLoader(func() (*Classifier, error) {
		calls++
		return c, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := l.Get()
			assert.NoError(t, err)
			assert.Same(t, c, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestLoaderWrapsFailure(t *testing.T) {
	l := NewLoader(func() (*Classifier, error) {
		return nil, os.ErrNotExist
	})
	_, err := l.Get()
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.False(t, IsRecoverable(err))
}

func TestLoadArtifactsMissingDir(t *testing.T) {
	_, _, err := LoadArtifacts(filepath.Join(t.TempDir(), "missing"), 0)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}
