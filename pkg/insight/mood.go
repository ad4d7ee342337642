package insight

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// EntryPoint is the slice of a journal entry the mood aggregations need.
type EntryPoint struct {
	Emotion    string
	Confidence float64
	CreatedAt  time.Time
}

type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

type DayMood struct {
	Date    string `json:"date"`
	Emotion string `json:"emotion"`
	Entries int    `json:"entries"`
	Color   string `json:"color"`
}

type WeekMood struct {
	WeekStart string `json:"week_start"`
	Emotion   string `json:"emotion"`
	Entries   int    `json:"entries"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

type MoodInsights struct {
	MostCommon   string `json:"most_common"`
	TotalEntries int    `json:"total_entries"`
	DaysActive   int    `json:"days_active"`
}

// Distribution counts entries per emotion, most frequent first; ties are
// ordered by name.
func Distribution(entries []EntryPoint) []EmotionCount {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Emotion]++
	}
	return sortedCounts(counts)
}

func sortedCounts(counts map[string]int) []EmotionCount {
	out := make([]EmotionCount, 0, len(counts))
	for emo, n := range counts {
		out = append(out, EmotionCount{Emotion: emo, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

// mode returns the most frequent emotion; ties go to the alphabetically
// first one.
func mode(counts map[string]int) string {
	best, bestN := "", -1
	for emo, n := range counts {
		if n > bestN || (n == bestN && emo < best) {
			best, bestN = emo, n
		}
	}
	return best
}

// DailyMoods returns the dominant emotion of each day with entries, oldest
// first. Colors come from the catalog cards.
func DailyMoods(entries []EntryPoint, catalog *Catalog) []DayMood {
	byDay := groupBy(entries, func(t time.Time) string { return t.Format(dateLayout) })
	out := make([]DayMood, 0, len(byDay))
	for day, counts := range byDay {
		emo := mode(counts)
		out = append(out, DayMood{Date: day, Emotion: emo, Entries: total(counts), Color: catalog.Color(emo)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeeklyMoods returns the dominant emotion per week. Weeks start on Monday.
func WeeklyMoods(entries []EntryPoint) []WeekMood {
	byWeek := groupBy(entries, func(t time.Time) string { return WeekStart(t).Format(dateLayout) })
	out := make([]WeekMood, 0, len(byWeek))
	for week, counts := range byWeek {
		out = append(out, WeekMood{WeekStart: week, Emotion: mode(counts), Entries: total(counts)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	return out
}

// Trends counts entries per day and emotion, ordered by date then emotion.
func Trends(entries []EntryPoint) []TrendPoint {
	byDay := groupBy(entries, func(t time.Time) string { return t.Format(dateLayout) })
	var out []TrendPoint
	for day, counts := range byDay {
		for emo, n := range counts {
			out = append(out, TrendPoint{Date: day, Emotion: emo, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Emotion < out[j].Emotion
	})
	if out == nil {
		out = []TrendPoint{}
	}
	return out
}

// Summarize returns the headline numbers of the history page.
func Summarize(entries []EntryPoint) MoodInsights {
	counts := make(map[string]int)
	days := make(map[string]struct{})
	for _, e := range entries {
		counts[e.Emotion]++
		days[e.CreatedAt.Format(dateLayout)] = struct{}{}
	}
	return MoodInsights{
		MostCommon:   mode(counts),
		TotalEntries: len(entries),
		DaysActive:   len(days),
	}
}

// WeeklySummary describes the given entries as one sentence, e.g.
// "This week, you logged 3 entries: joy (2), sadness (1)."
func WeeklySummary(entries []EntryPoint) string {
	if len(entries) == 0 {
		return "No entries found for this week. Start journaling to see your mood patterns!"
	}
	parts := make([]string, 0)
	for _, c := range Distribution(entries) {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.Emotion, c.Count))
	}
	return fmt.Sprintf("This week, you logged %d entries: %s.", len(entries), strings.Join(parts, ", "))
}

// WeekStart returns midnight of the Monday on or before t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func groupBy(entries []EntryPoint, key func(time.Time) string) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, e := range entries {
		k := key(e.CreatedAt)
		if out[k] == nil {
			out[k] = make(map[string]int)
		}
		out[k][e.Emotion]++
	}
	return out
}

func total(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
