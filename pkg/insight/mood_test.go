package insight

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func at(day string, hour int) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

var history = []EntryPoint{
	{Emotion: "joy", Confidence: 0.9, CreatedAt: at("2026-10-05", 9)},
	{Emotion: "sadness", Confidence: 0.7, CreatedAt: at("2026-10-05", 20)},
	{Emotion: "joy", Confidence: 0.8, CreatedAt: at("2026-10-06", 8)},
	{Emotion: "fear", Confidence: 0.6, CreatedAt: at("2026-10-12", 10)},
	{Emotion: "fear", Confidence: 0.7, CreatedAt: at("2026-10-12", 11)},
	{Emotion: "anger", Confidence: 0.9, CreatedAt: at("2026-10-13", 11)},
}

func TestDistribution(t *testing.T) {
	want := []EmotionCount{{"fear", 2}, {"joy", 2}, {"anger", 1}, {"sadness", 1}}
	if diff := cmp.Diff(want, Distribution(history)); diff != "" {
		t.Errorf("Distribution mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Distribution(nil))
}

func TestDailyMoods(t *testing.T) {
	got := DailyMoods(history, DefaultCatalog())
	want := []DayMood{
		{Date: "2026-10-05", Emotion: "joy", Entries: 2, Color: "#28a745"},
		{Date: "2026-10-06", Emotion: "joy", Entries: 1, Color: "#28a745"},
		{Date: "2026-10-12", Emotion: "fear", Entries: 2, Color: "#fd7e14"},
		{Date: "2026-10-13", Emotion: "anger", Entries: 1, Color: "#dc3545"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DailyMoods mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyMoods(t *testing.T) {
	got := WeeklyMoods(history)
	want := []WeekMood{
		{WeekStart: "2026-10-05", Emotion: "joy", Entries: 3},
		{WeekStart: "2026-10-12", Emotion: "fear", Entries: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeeklyMoods mismatch (-want +got):\n%s", diff)
	}
}

func TestWeekStart(t *testing.T) {
	// 2026-10-11 is a Sunday, 2026-10-12 a Monday.
	assert.Equal(t, "2026-10-05", WeekStart(at("2026-10-11", 23)).Format(dateLayout))
	assert.Equal(t, "2026-10-12", WeekStart(at("2026-10-12", 0)).Format(dateLayout))
	assert.Equal(t, "2026-10-12", WeekStart(at("2026-10-15", 12)).Format(dateLayout))
}

func TestTrends(t *testing.T) {
	got := Trends(history[:3])
	want := []TrendPoint{
		{Date: "2026-10-05", Emotion: "joy", Count: 1},
		{Date: "2026-10-05", Emotion: "sadness", Count: 1},
		{Date: "2026-10-06", Emotion: "joy", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Trends mismatch (-want +got):\n%s", diff)
	}
	assert.NotNil(t, Trends(nil))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, MoodInsights{MostCommon: "fear", TotalEntries: 6, DaysActive: 4}, Summarize(history))
	assert.Equal(t, MoodInsights{}, Summarize(nil))
}

func TestWeeklySummary(t *testing.T) {
	assert.Equal(t,
		"This week, you logged 3 entries: fear (2), anger (1).",
		WeeklySummary(history[3:]))
	assert.Equal(t,
		"No entries found for this week. Start journaling to see your mood patterns!",
		WeeklySummary(nil))
}
