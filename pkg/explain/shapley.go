// Package explain attributes an emotion prediction to the words of the
// entry and turns the attribution into a ranked list of words.
//
// Attribution uses permutation-sampling Shapley values: each non-special
// token is a player, absent players are replaced by [MASK], and the value
// of a coalition is the model's probability for the target label. The
// estimate is stochastic; with a fixed seed it is reproducible.
package explain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/emotion/tokenizer"

	"golang.org/x/sync/errgroup"
)

// Model is the black box being explained.
type Model interface {
	Encode(text string) tokenizer.Encoding
	Mask(enc tokenizer.Encoding, keep []bool) tokenizer.Encoding
	Probabilities(ctx context.Context, batch []tokenizer.Encoding) ([][]float64, error)
}

type Config struct {
	// Permutations is rounded up to an even number; permutations are
	// sampled in antithetic (forward, reversed) pairs.
	Permutations int
	Workers      int
	BatchSize    int
	Budget       time.Duration
	// Seed 0 draws a fresh seed per call.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Permutations: 10,
		Workers:      4,
		BatchSize:    32,
		Budget:       20 * time.Second,
	}
}

// Attribution holds one score per token of the encoded text, specials
// included (their score is zero).
type Attribution struct {
	Label      string
	LabelIndex int
	Tokens     []string
	Values     []float64
	// BaseValue is f(all tokens masked); FullValue is f(text). The values
	// sum to FullValue - BaseValue.
	BaseValue    float64
	FullValue    float64
	Permutations int
	Truncated    bool
}

// Sum returns the total attribution.
func (a *Attribution) Sum() float64 {
	s := 0.0
	for _, v := range a.Values {
		s += v
	}
	return s
}

type Explainer struct {
	model   Model
	labels  *emotion.LabelSet
	cfg     Config
	metrics *emotion.Metrics
}

// New creates an explainer for the labels it will accept as targets.
func New(model Model, labels *emotion.LabelSet, cfg Config, metrics *emotion.Metrics) *Explainer {
	def := DefaultConfig()
	if cfg.Permutations <= 0 {
		cfg.Permutations = def.Permutations
	}
	if cfg.Permutations%2 == 1 {
		cfg.Permutations++
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	return &Explainer{model: model, labels: labels, cfg: cfg, metrics: metrics}
}

func (e *Explainer) Labels() *emotion.LabelSet { return e.labels }

// ExplainableIndex returns the target index for label, if the explainer
// was configured with it.
func (e *Explainer) ExplainableIndex(label string) (int, bool) {
	return e.labels.Index(label)
}

// Explain computes token attributions for the label at target. It fails
// with ErrLabelNotExplainable, ErrAttributionTimeout when the budget runs
// out, or ErrAttributionFailure for inference errors.
func (e *Explainer) Explain(ctx context.Context, text string, target int) (*Attribution, error) {
	label, ok := e.labels.Name(target)
	if !ok {
		return nil, fmt.Errorf("%w: index %d outside %d labels", emotion.ErrLabelNotExplainable, target, e.labels.Len())
	}
	if strings.TrimSpace(text) == "" {
		return nil, emotion.ErrEmptyInput
	}

	start := time.Now()
	attr, err := e.explain(ctx, text, target)
	if attr != nil {
		attr.Label = label
	}
	e.metrics.RecordAttribution(ctx, label, time.Since(start), err)
	return attr, err
}

func (e *Explainer) explain(ctx context.Context, text string, target int) (*Attribution, error) {
	enc := e.model.Encode(text)

	var players []int
	for i, special := range enc.Special {
		if !special {
			players = append(players, i)
		}
	}

	attr := &Attribution{
		LabelIndex:   target,
		Tokens:       append([]string(nil), enc.Tokens...),
		Values:       make([]float64, enc.Len()),
		Permutations: e.cfg.Permutations,
		Truncated:    enc.Truncated,
	}
	if len(players) == 0 {
		return attr, nil
	}

	budgetCtx, cancel := context.WithTimeout(ctx, e.cfg.Budget)
	defer cancel()

	seed := e.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	samples := make([]sample, e.cfg.Permutations)
	g, gctx := errgroup.WithContext(budgetCtx)
	g.SetLimit(e.cfg.Workers)
	for p := range samples {
		g.Go(func() error {
			s, err := e.walk(gctx, enc, players, target, permutation(seed, p, len(players)))
			if err != nil {
				return err
			}
			samples[p] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, fmt.Errorf("%w: %w", emotion.ErrAttributionFailure, ctx.Err())
		case errors.Is(budgetCtx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("%w after %s", emotion.ErrAttributionTimeout, e.cfg.Budget)
		default:
			return nil, fmt.Errorf("%w: %w", emotion.ErrAttributionFailure, err)
		}
	}

	// Merge in permutation order so a fixed seed gives the same floats
	// regardless of scheduling.
	n := float64(len(samples))
	for _, s := range samples {
		for j, pos := range players {
			attr.Values[pos] += s.gains[j] / n
		}
		attr.BaseValue += s.base / n
		attr.FullValue += s.full / n
	}
	return attr, nil
}

// sample is one permutation's marginal gains, indexed like players.
type sample struct {
	gains []float64
	base  float64
	full  float64
}

// permutation returns the order in which players join the coalition for
// sample p. Odd samples replay the previous sample's order reversed.
func permutation(seed uint64, p, n int) []int {
	rng := rand.New(rand.NewPCG(seed, uint64(p/2)))
	perm := rng.Perm(n)
	if p%2 == 1 {
		for i, j := 0, len(perm)-1; i < j; i, j = i+1, j-1 {
			perm[i], perm[j] = perm[j], perm[i]
		}
	}
	return perm
}

// walk adds players one at a time in perm order, starting from the fully
// masked input, and records each player's marginal gain.
func (e *Explainer) walk(ctx context.Context, enc tokenizer.Encoding, players []int, target int, perm []int) (sample, error) {
	keep := make([]bool, enc.Len())
	chain := make([]tokenizer.Encoding, 0, len(perm)+1)
	chain = append(chain, e.model.Mask(enc, keep))
	for _, j := range perm {
		keep[players[j]] = true
		chain = append(chain, e.model.Mask(enc, keep))
	}

	values := make([]float64, 0, len(chain))
	for start := 0; start < len(chain); start += e.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return sample{}, err
		}
		end := min(start+e.cfg.BatchSize, len(chain))
		rows, err := e.model.Probabilities(ctx, chain[start:end])
		if err != nil {
			return sample{}, err
		}
		if len(rows) != end-start {
			return sample{}, fmt.Errorf("model returned %d rows for %d inputs", len(rows), end-start)
		}
		for _, row := range rows {
			if target >= len(row) {
				return sample{}, fmt.Errorf("model returned %d probabilities, target is %d", len(row), target)
			}
			values = append(values, row[target])
		}
	}

	s := sample{
		gains: make([]float64, len(players)),
		base:  values[0],
		full:  values[len(values)-1],
	}
	for k, j := range perm {
		s.gains[j] = values[k+1] - values[k]
	}
	return s, nil
}
