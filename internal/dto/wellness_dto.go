package dto

import (
	"time"

	"ai-journaling-be/pkg/insight"

	"github.com/google/uuid"
)

type WeeklySummaryResponse struct {
	Summary      string                 `json:"summary"`
	TotalEntries int                    `json:"total_entries"`
	Emotions     []insight.EmotionCount `json:"emotions"`
	From         time.Time              `json:"from"`
	To           time.Time              `json:"to"`
}

type PromptResponse struct {
	Prompt string `json:"prompt"`
}

type ActivitiesResponse struct {
	Activities []string `json:"activities"`
}

type CheckInRequest struct {
	Mood int    `json:"mood" validate:"required,min=1,max=10"`
	Note string `json:"note" validate:"max=2000"`
}

type CheckInResponse struct {
	Id        uuid.UUID `json:"id"`
	Mood      int       `json:"mood"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type CheckInStatusResponse struct {
	Due         bool       `json:"due"`
	LastCheckIn *time.Time `json:"last_check_in,omitempty"`
	NextDueAt   *time.Time `json:"next_due_at,omitempty"`
}

type QuoteResponse struct {
	Quote string `json:"quote"`
}
