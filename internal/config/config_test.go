package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	cfg := Load()

	assert.Equal(t, "", cfg.App.Port)
	assert.Equal(t, 0.5, cfg.Analysis.ConfidenceThreshold)
	assert.Equal(t, 2, cfg.Analysis.MaxEmotions)
	assert.Equal(t, 8, cfg.Analysis.TopWords)
	assert.Equal(t, 5, cfg.Analysis.ChartWords)
	assert.True(t, cfg.Analysis.PersistUnclassified)
	assert.Equal(t, "unclassified", cfg.Analysis.UnclassifiedLabel)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANALYSIS_CONFIDENCE_THRESHOLD", "0.65")
	t.Setenv("ANALYSIS_PERSIST_UNCLASSIFIED", "false")
	t.Setenv("ATTRIBUTION_BUDGET", "5s")
	t.Setenv("MODEL_BACKEND", "REMOTE")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 0.65, cfg.Analysis.ConfidenceThreshold)
	assert.False(t, cfg.Analysis.PersistUnclassified)
	assert.Equal(t, 5*time.Second, cfg.Attribution.Budget)
	assert.Equal(t, "remote", cfg.Model.Backend)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLocation(t *testing.T) {
	cfg := &Config{App: AppConfig{Timezone: "UTC"}}
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.App.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestUnclassifiedLabelNormalised(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{name: "mixed case", env: "Unclassified", want: "unclassified"},
		{name: "padded", env: "  Unknown ", want: "unknown"},
		{name: "empty falls back", env: "", want: "unclassified"},
		{name: "blank falls back", env: "   ", want: "unclassified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANALYSIS_UNCLASSIFIED_LABEL", tt.env)
			assert.Equal(t, tt.want, Load().Analysis.UnclassifiedLabel)
		})
	}
}
