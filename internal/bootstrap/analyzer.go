package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"ai-journaling-be/internal/config"
	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/emotion/onnx"
	"ai-journaling-be/pkg/emotion/remote"
	"ai-journaling-be/pkg/emotion/tokenizer"
	"ai-journaling-be/pkg/explain"
	"ai-journaling-be/pkg/insight"

	"go.uber.org/zap"
)

// NewModel builds the inference backend selected by cfg.Backend.
func NewModel(cfg config.ModelConfig, tok *tokenizer.Tokenizer, labels *emotion.LabelSet) (emotion.Model, error) {
	switch cfg.Backend {
	case "", "onnx":
		backend, err := onnx.New(onnx.Config{
			ModelPath:    filepath.Join(cfg.Dir, cfg.OnnxFile),
			LibraryPath:  cfg.OrtLibrary,
			PoolSize:     cfg.PoolSize,
			IntraThreads: cfg.IntraThreads,
			InterThreads: cfg.InterThreads,
			NumLabels:    labels.Len(),
			PadID:        tok.Vocab().PadID,
		})
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "remote":
		client, err := remote.New(remote.Config{
			BaseURL:  cfg.RemoteURL,
			Model:    cfg.RemoteModel,
			APIKey:   cfg.RemoteAPIKey,
			MaxBatch: cfg.PoolSize * 8,
		}, labels)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown MODEL_BACKEND %q (want onnx or remote)", cfg.Backend)
	}
}

// NewClassifier loads the model artifacts and the configured backend.
func NewClassifier(cfg config.ModelConfig, metrics *emotion.Metrics) (*emotion.Classifier, error) {
	tok, labels, err := emotion.LoadArtifacts(cfg.Dir, cfg.MaxSeqLen)
	if err != nil {
		return nil, err
	}
	model, err := NewModel(cfg, tok, labels)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(cfg.Dir)
	if cfg.Backend == "remote" {
		name = cfg.RemoteModel
	}
	log.Printf("[INFO] Emotion model loaded: %s (%s backend, %d labels)", name, cfg.Backend, labels.Len())
	return emotion.NewClassifier(tok, model, labels, emotion.WithMetrics(metrics), emotion.WithModelName(name))
}

// NewAnalyzer assembles the full pipeline around an already loaded
// classifier.
func NewAnalyzer(cfg *config.Config, classifier *emotion.Classifier, catalog *insight.Catalog, metrics *emotion.Metrics, zl *zap.Logger) *insight.Analyzer {
	var explainer insight.Explainer
	if cfg.Attribution.Enabled {
		explainer = explain.New(classifier, classifier.Labels(), explain.Config{
			Permutations: cfg.Attribution.Permutations,
			Workers:      cfg.Attribution.Workers,
			BatchSize:    cfg.Attribution.BatchSize,
			Budget:       cfg.Attribution.Budget,
			Seed:         cfg.Attribution.Seed,
		}, metrics)
	}
	return insight.NewAnalyzer(classifier, explainer, insight.Options{
		Policy: emotion.SelectionPolicy{
			Threshold:   cfg.Analysis.ConfidenceThreshold,
			MaxEmotions: cfg.Analysis.MaxEmotions,
		},
		TopWords:   cfg.Analysis.TopWords,
		ChartWords: cfg.Analysis.ChartWords,
		Catalog:    catalog,
		Metrics:    metrics,
		Logger:     zl.Named("insight"),
	})
}

// LazyAnalyzer loads the model once, on Warm or the first analysis. After a
// failed load every analysis reports emotion.ErrModelUnavailable.
type LazyAnalyzer struct {
	loader  *emotion.Loader
	build   func(*emotion.Classifier) *insight.Analyzer
	catalog *insight.Catalog

	once     sync.Once
	analyzer *insight.Analyzer
}

func NewLazyAnalyzer(cfg *config.Config, catalog *insight.Catalog, zl *zap.Logger) *LazyAnalyzer {
	metrics := emotion.NewMetrics(zl.Named("emotion"))
	return &LazyAnalyzer{
		loader: emotion.NewLoader(func() (*emotion.Classifier, error) {
			return NewClassifier(cfg.Model, metrics)
		}),
		build: func(c *emotion.Classifier) *insight.Analyzer {
			return NewAnalyzer(cfg, c, catalog, metrics, zl)
		},
		catalog: catalog,
	}
}

// Warm loads the model now and reports the outcome.
func (l *LazyAnalyzer) Warm() error {
	_, err := l.get()
	return err
}

func (l *LazyAnalyzer) get() (*insight.Analyzer, error) {
	c, err := l.loader.Get()
	if err != nil {
		return nil, err
	}
	l.once.Do(func() { l.analyzer = l.build(c) })
	return l.analyzer, nil
}

func (l *LazyAnalyzer) Analyze(ctx context.Context, text string) (*insight.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, emotion.ErrEmptyInput
	}
	a, err := l.get()
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, text)
}

func (l *LazyAnalyzer) Catalog() *insight.Catalog { return l.catalog }
