package entity

import (
	"time"

	"github.com/google/uuid"
)

type EmotionScore struct {
	Label      string
	Confidence float64
}

type WordContribution struct {
	Word  string
	Score float64
}

// JournalEntry is a saved analysis. Emotion is the primary selected label,
// or the unclassified label when nothing passed the threshold.
type JournalEntry struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Text           string
	Emotion        string
	Confidence     float64
	Scores         []EmotionScore
	Words          []WordContribution
	ExplainedLabel string
	CreatedAt      time.Time
}

type CheckIn struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Mood      int
	Note      string
	CreatedAt time.Time
}

// Aggregation rows used by the admin dashboard.

type DateCount struct {
	Date  string
	Count int64
}

type EmotionTotal struct {
	Emotion string
	Count   int64
}

type WeeklyEmotionCount struct {
	Week    string
	Emotion string
	Count   int64
}
