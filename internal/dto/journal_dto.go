package dto

import (
	"time"

	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/explain"
	"ai-journaling-be/pkg/insight"

	"github.com/google/uuid"
)

type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// AnalyzeResponse is the full result of one analysis. EntryId is nil when
// the entry was not saved.
type AnalyzeResponse struct {
	EntryId        *uuid.UUID           `json:"entry_id"`
	Emotions       []emotion.Score      `json:"emotions"`
	Primary        *emotion.Score       `json:"primary"`
	Scores         []emotion.Score      `json:"scores"`
	TopConfidences []emotion.Score      `json:"top_confidences"`
	Explained      bool                 `json:"explained"`
	ExplainedLabel string               `json:"explained_label,omitempty"`
	Words          []explain.RankedWord `json:"words"`
	ChartWords     []explain.RankedWord `json:"chart_words"`
	Card           insight.Card         `json:"card"`
	Notices        []insight.Notice     `json:"notices"`
}

type EntryListRequest struct {
	Emotion string `query:"emotion"`
	From    string `query:"from"`
	To      string `query:"to"`
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
}

type WordScoreResponse struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type EntryResponse struct {
	Id             uuid.UUID           `json:"id"`
	Text           string              `json:"text"`
	Emotion        string              `json:"emotion"`
	Confidence     float64             `json:"confidence"`
	Scores         []emotion.Score     `json:"scores"`
	Words          []WordScoreResponse `json:"words"`
	ExplainedLabel string              `json:"explained_label,omitempty"`
	Color          string              `json:"color"`
	CreatedAt      time.Time           `json:"created_at"`
}

type DateRangeRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// EntrySavedMessage is published in-process after an entry is stored.
type EntrySavedMessage struct {
	EntryId   uuid.UUID `json:"entry_id"`
	UserId    uuid.UUID `json:"user_id"`
	Emotion   string    `json:"emotion"`
	CreatedAt time.Time `json:"created_at"`
}
