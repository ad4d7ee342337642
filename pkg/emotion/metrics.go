package emotion

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "ai-journaling-be/pkg/emotion"

// Metrics holds the pipeline instruments. A nil *Metrics records nothing.
type Metrics struct {
	meter  metric.Meter
	logger *zap.Logger

	inference   metric.Float64Histogram
	batchSize   metric.Int64Histogram
	attribution metric.Float64Histogram
	outcomes    metric.Int64Counter
	errors      metric.Int64Counter
}

// NewMetrics registers the instruments on the global meter provider.
func NewMetrics(logger *zap.Logger) *Metrics {
	return NewMetricsWithProvider(otel.GetMeterProvider(), logger)
}

func NewMetricsWithProvider(mp metric.MeterProvider, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		meter:  mp.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.inference, err = m.meter.Float64Histogram(
		"journal.emotion.inference_duration_seconds",
		metric.WithDescription("Duration of classifier forward passes by model and operation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		m.logger.Warn("failed to create inference histogram", zap.Error(err))
	}

	m.batchSize, err = m.meter.Int64Histogram(
		"journal.emotion.batch_size",
		metric.WithDescription("Encodings per forward pass"),
		metric.WithUnit("{text}"),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32, 64, 128),
	)
	if err != nil {
		m.logger.Warn("failed to create batch size histogram", zap.Error(err))
	}

	m.attribution, err = m.meter.Float64Histogram(
		"journal.emotion.attribution_duration_seconds",
		metric.WithDescription("Duration of word attribution per explained label"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60),
	)
	if err != nil {
		m.logger.Warn("failed to create attribution histogram", zap.Error(err))
	}

	m.outcomes, err = m.meter.Int64Counter(
		"journal.emotion.analysis_outcomes_total",
		metric.WithDescription("Analyses by outcome (classified, unclassified, explained, not_explainable, timeout)"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		m.logger.Warn("failed to create outcome counter", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"journal.emotion.errors_total",
		metric.WithDescription("Inference and attribution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn("failed to create errors counter", zap.Error(err))
	}
}

// RecordPrediction records one forward pass.
func (m *Metrics) RecordPrediction(ctx context.Context, model, operation string, d time.Duration, batch int, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("operation", operation),
	)
	if m.inference != nil {
		m.inference.Record(ctx, d.Seconds(), attrs)
	}
	if batch > 0 && m.batchSize != nil {
		m.batchSize.Record(ctx, int64(batch), attrs)
	}
	if err != nil && m.errors != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

// RecordAttribution records one explanation run.
func (m *Metrics) RecordAttribution(ctx context.Context, label string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("label", label),
		attribute.String("operation", "attribution"),
	)
	if m.attribution != nil {
		m.attribution.Record(ctx, d.Seconds(), attrs)
	}
	if err != nil && m.errors != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

// RecordOutcome counts an analysis result.
func (m *Metrics) RecordOutcome(ctx context.Context, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
