package insight

import (
	"context"
	"testing"

	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/explain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func outcomeCounts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "journal.emotion.analysis_outcomes_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "outcomes should be an int64 sum")
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[v.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestAnalyzeRecordsOutcomes(t *testing.T) {
	tests := []struct {
		name string
		pred *emotion.Prediction
		want map[string]int64
	}{
		{
			name: "classified and explained",
			pred: mockedPrediction(),
			want: map[string]int64{"classified": 1, "explained": 1},
		},
		{
			name: "nothing above threshold",
			pred: &emotion.Prediction{Scores: []emotion.Score{
				{Label: "joy", Probability: 0.45}, {Label: "sadness", Probability: 0.40},
			}},
			want: map[string]int64{"unclassified": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			metrics := emotion.NewMetricsWithProvider(mp, zap.NewNop())

			tokens := sentenceTokens(t)
			ex := &stubExplainer{
				labels: modelLabels,
				attr: &explain.Attribution{
					Label: "joy", LabelIndex: 1, Tokens: tokens,
					Values: []float64{0, 0.01, 0.02, 0.05, 0.48, 0.01, 0.31, 0.00, 0.03, 0.02, 0},
				},
			}
			a := NewAnalyzer(&stubClassifier{pred: tt.pred}, ex, Options{Metrics: metrics})

			_, err := a.Analyze(context.Background(), "I am so happy and excited about this!")
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, outcomeCounts(t, reader)); diff != "" {
				t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
