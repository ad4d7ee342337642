// Package insight runs the emotion-explanation pipeline for a journal
// entry and aggregates stored entries into mood summaries.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/explain"

	"go.uber.org/zap"
)

// Classifier is the prediction capability the analyzer needs.
type Classifier interface {
	Predict(ctx context.Context, text string) (*emotion.Prediction, error)
}

// Explainer is the attribution capability the analyzer needs.
type Explainer interface {
	ExplainableIndex(label string) (int, bool)
	Explain(ctx context.Context, text string, target int) (*explain.Attribution, error)
}

type NoticeCode string

const (
	NoticeNoConfidentEmotion   NoticeCode = "NO_CONFIDENT_EMOTION"
	NoticeLabelNotExplainable  NoticeCode = "LABEL_NOT_EXPLAINABLE"
	NoticeExplanationDisabled  NoticeCode = "EXPLANATION_DISABLED"
	NoticeAttributionTimeout   NoticeCode = "ATTRIBUTION_TIMEOUT"
	NoticeAttributionFailed    NoticeCode = "ATTRIBUTION_FAILED"
	NoticeAttributionTruncated NoticeCode = "ATTRIBUTION_TRUNCATED"
	NoticeNoContributingWords  NoticeCode = "NO_CONTRIBUTING_WORDS"
	NoticeInputTruncated       NoticeCode = "INPUT_TRUNCATED"
)

// Notice is a user-facing note about a step that was skipped or degraded.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
}

// Analysis is everything the UI shows after "analyze".
type Analysis struct {
	Scores         []emotion.Score
	Emotions       []emotion.Score
	Primary        *emotion.Score
	TopConfidences []emotion.Score

	Explained      bool
	ExplainedLabel string
	Words          []explain.RankedWord
	ChartWords     []explain.RankedWord

	Card    Card
	Notices []Notice
}

func (a *Analysis) HasNotice(code NoticeCode) bool {
	for _, n := range a.Notices {
		if n.Code == code {
			return true
		}
	}
	return false
}

func (a *Analysis) notice(code NoticeCode, format string, args ...any) {
	a.Notices = append(a.Notices, Notice{Code: code, Message: fmt.Sprintf(format, args...)})
}

type Options struct {
	Policy          emotion.SelectionPolicy
	TopWords        int
	ChartWords      int
	ConfidenceChart int
	Filter          *explain.WordFilter
	Catalog         *Catalog
	Metrics         *emotion.Metrics
	Logger          *zap.Logger
}

type Analyzer struct {
	classifier Classifier
	explainer  Explainer
	opts       Options
}

// NewAnalyzer wires the pipeline. A nil explainer disables word attribution.
func NewAnalyzer(classifier Classifier, explainer Explainer, opts Options) *Analyzer {
	if opts.Policy.MaxEmotions <= 0 {
		opts.Policy = emotion.DefaultSelectionPolicy()
	}
	if opts.TopWords <= 0 {
		opts.TopWords = explain.TopWordsFull
	}
	if opts.ChartWords <= 0 {
		opts.ChartWords = explain.TopWordsChart
	}
	if opts.ConfidenceChart <= 0 {
		opts.ConfidenceChart = 3
	}
	if opts.Filter == nil {
		opts.Filter = explain.NewWordFilter(explain.EnglishStoplist())
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Analyzer{classifier: classifier, explainer: explainer, opts: opts}
}

func (a *Analyzer) Policy() emotion.SelectionPolicy { return a.opts.Policy }
func (a *Analyzer) Catalog() *Catalog               { return a.opts.Catalog }

// Analyze classifies text, selects the confident emotions and explains the
// first explainable one. Only empty input and classifier failures are
// returned as errors; everything else becomes a Notice.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, emotion.ErrEmptyInput
	}

	pred, err := a.classifier.Predict(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &Analysis{
		Scores:         pred.Scores,
		Emotions:       a.opts.Policy.Select(pred.Scores),
		TopConfidences: pred.TopN(a.opts.ConfidenceChart),
		Words:          []explain.RankedWord{},
		ChartWords:     []explain.RankedWord{},
	}
	if pred.Truncated {
		res.notice(NoticeInputTruncated, "Your entry is longer than the model can read; only the beginning was analyzed.")
	}

	primary, ok := emotion.Primary(res.Emotions)
	if !ok {
		res.Card = a.opts.Catalog.Card(a.opts.Catalog.Fallback)
		res.notice(NoticeNoConfidentEmotion, "No strong emotions detected with confidence > %g.", a.opts.Policy.Threshold)
		a.opts.Metrics.RecordOutcome(ctx, "unclassified")
		return res, nil
	}
	res.Primary = &primary
	res.Card = a.opts.Catalog.Card(primary.Label)
	a.opts.Metrics.RecordOutcome(ctx, "classified")

	a.explainInto(ctx, text, res)
	return res, nil
}

func (a *Analyzer) explainInto(ctx context.Context, text string, res *Analysis) {
	if a.explainer == nil {
		res.notice(NoticeExplanationDisabled, "Word-level explanation is turned off.")
		return
	}

	label, target := "", -1
	for _, s := range res.Emotions {
		if idx, ok := a.explainer.ExplainableIndex(s.Label); ok {
			label, target = s.Label, idx
			break
		}
	}
	if target < 0 {
		res.notice(NoticeLabelNotExplainable, "Explanation is not available for the detected emotion(s).")
		a.opts.Metrics.RecordOutcome(ctx, "not_explainable")
		return
	}

	attr, err := a.explainer.Explain(ctx, text, target)
	switch {
	case errors.Is(err, emotion.ErrAttributionTimeout):
		res.notice(NoticeAttributionTimeout, "The explanation took too long and was skipped. Your emotion result is unaffected.")
		a.opts.Metrics.RecordOutcome(ctx, "timeout")
		a.opts.Logger.Warn("attribution timed out", zap.String("label", label))
		return
	case errors.Is(err, emotion.ErrLabelNotExplainable):
		res.notice(NoticeLabelNotExplainable, "Explanation is not available for the detected emotion(s).")
		a.opts.Metrics.RecordOutcome(ctx, "not_explainable")
		return
	case err != nil:
		res.notice(NoticeAttributionFailed, "Couldn't compute an explanation for this entry.")
		a.opts.Metrics.RecordOutcome(ctx, "attribution_failed")
		a.opts.Logger.Error("attribution failed", zap.String("label", label), zap.Error(err))
		return
	}

	rec := explain.Reconstruct(attr.Tokens, attr.Values)
	if rec.Truncated {
		res.notice(NoticeAttributionTruncated, "Some words at the end of your entry could not be scored.")
		a.opts.Logger.Warn("attribution shorter than token sequence",
			zap.Int("tokens", len(attr.Tokens)), zap.Int("scores", len(attr.Values)))
	}

	words := a.opts.Filter.Apply(rec.Words)
	res.Explained = true
	res.ExplainedLabel = label
	res.Words = explain.Rank(words, a.opts.TopWords)
	res.ChartWords = explain.Rank(words, a.opts.ChartWords)
	if len(res.Words) == 0 {
		res.notice(NoticeNoContributingWords, "Couldn't extract key contributing words for this entry.")
	}
	a.opts.Metrics.RecordOutcome(ctx, "explained")
}
