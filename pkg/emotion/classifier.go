// Package emotion classifies journal text into the labels of a pretrained
// sequence-classification model and selects the emotions worth reporting.
package emotion

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ai-journaling-be/pkg/emotion/tokenizer"
)

// Model is an inference backend: one row of raw logits per encoding, in
// label-index order. Implementations must be safe for concurrent use.
type Model interface {
	Logits(ctx context.Context, batch []tokenizer.Encoding) ([][]float32, error)
	Close() error
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMetrics attaches OpenTelemetry instruments.
func WithMetrics(m *Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// WithModelName sets the name reported in metrics.
func WithModelName(name string) Option {
	return func(c *Classifier) { c.name = name }
}

// Classifier maps text to a probability distribution over a fixed label set.
type Classifier struct {
	tok     *tokenizer.Tokenizer
	model   Model
	labels  *LabelSet
	metrics *Metrics
	name    string
}

func NewClassifier(tok *tokenizer.Tokenizer, model Model, labels *LabelSet, opts ...Option) (*Classifier, error) {
	if tok == nil || model == nil || labels == nil {
		return nil, fmt.Errorf("%w: tokenizer, model and labels are required", ErrModelUnavailable)
	}
	c := &Classifier{tok: tok, model: model, labels: labels, name: "emotion"}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Classifier) Labels() *LabelSet               { return c.labels }
func (c *Classifier) Tokenizer() *tokenizer.Tokenizer { return c.tok }

// Encode tokenizes text the way Predict does.
func (c *Classifier) Encode(text string) tokenizer.Encoding {
	return c.tok.Encode(text)
}

// Mask hides the non-special positions of enc where keep is false.
func (c *Classifier) Mask(enc tokenizer.Encoding, keep []bool) tokenizer.Encoding {
	return c.tok.Mask(enc, keep)
}

// Predict classifies text. Blank input fails with ErrEmptyInput; overlong
// input is truncated to the leading tokens.
func (c *Classifier) Predict(ctx context.Context, text string) (*Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	start := time.Now()
	enc := c.tok.Encode(text)
	rows, err := c.logits(ctx, []tokenizer.Encoding{enc})
	c.metrics.RecordPrediction(ctx, c.name, "predict", time.Since(start), 1, err)
	if err != nil {
		return nil, err
	}

	logits := rows[0]
	return &Prediction{
		Scores:    rankScores(c.labels, Softmax(logits)),
		Logits:    logits,
		Truncated: enc.Truncated,
	}, nil
}

// Probabilities runs a batch of prepared encodings and returns one
// probability row per encoding in label-index order.
func (c *Classifier) Probabilities(ctx context.Context, batch []tokenizer.Encoding) ([][]float64, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	start := time.Now()
	rows, err := c.logits(ctx, batch)
	c.metrics.RecordPrediction(ctx, c.name, "batch", time.Since(start), len(batch), err)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = Softmax(r)
	}
	return out, nil
}

func (c *Classifier) logits(ctx context.Context, batch []tokenizer.Encoding) ([][]float64, error) {
	raw, err := c.model.Logits(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	if len(raw) != len(batch) {
		return nil, fmt.Errorf("inference returned %d rows for %d inputs", len(raw), len(batch))
	}
	out := make([][]float64, len(raw))
	for i, row := range raw {
		if len(row) != c.labels.Len() {
			return nil, fmt.Errorf("inference returned %d logits for %d labels", len(row), c.labels.Len())
		}
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = float64(v)
		}
	}
	return out, nil
}

// Close releases the backend.
func (c *Classifier) Close() error {
	return c.model.Close()
}

// LoadArtifacts reads the tokenizer and label set of a HuggingFace model
// directory (vocab.txt, tokenizer_config.json, config.json).
func LoadArtifacts(dir string, maxSeqLen int) (*tokenizer.Tokenizer, *LabelSet, error) {
	tok, err := tokenizer.Load(dir, maxSeqLen)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	labels, err := LoadLabelSet(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return tok, labels, nil
}

// IsRecoverable reports whether err is a per-request condition rather than
// a broken model.
func IsRecoverable(err error) bool {
	return err != nil && !errors.Is(err, ErrModelUnavailable)
}
