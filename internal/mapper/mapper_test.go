package mapper

import (
	"testing"
	"time"

	"ai-journaling-be/internal/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestJournalMapperPreservesScoresAndWords(t *testing.T) {
	m := NewJournalMapper()
	in := &entity.JournalEntry{
		Id:             uuid.New(),
		UserId:         uuid.New(),
		Text:           "I am so excited about this",
		Emotion:        "joy",
		Confidence:     0.91,
		Scores:         []entity.EmotionScore{{Label: "joy", Confidence: 0.91}, {Label: "surprise", Confidence: 0.06}},
		Words:          []entity.WordContribution{{Word: "excited", Score: 0.42}},
		ExplainedLabel: "joy",
		CreatedAt:      time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(in, m.ToEntity(m.ToModel(in))); diff != "" {
		t.Errorf("journal entry mismatch (-want +got):\n%s", diff)
	}
}

func TestUserMapperPreference(t *testing.T) {
	m := NewUserMapper()
	in := &entity.UserPreference{UserId: uuid.New(), Tone: entity.ToneReflective}
	if diff := cmp.Diff(in, m.PreferenceToEntity(m.PreferenceToModel(in))); diff != "" {
		t.Errorf("preference mismatch (-want +got):\n%s", diff)
	}
	if m.ToEntity(nil) != nil || m.PreferenceToModel(nil) != nil {
		t.Error("nil input should map to nil")
	}
}
