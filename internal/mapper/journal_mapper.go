package mapper

import (
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
)

type JournalMapper struct{}

func NewJournalMapper() *JournalMapper {
	return &JournalMapper{}
}

func (m *JournalMapper) ToEntity(e *model.JournalEntry) *entity.JournalEntry {
	if e == nil {
		return nil
	}
	scores := make([]entity.EmotionScore, len(e.Scores))
	for i, s := range e.Scores {
		scores[i] = entity.EmotionScore{Label: s.Label, Confidence: s.Confidence}
	}
	words := make([]entity.WordContribution, len(e.Words))
	for i, w := range e.Words {
		words[i] = entity.WordContribution{Word: w.Word, Score: w.Score}
	}
	return &entity.JournalEntry{
		Id:             e.Id,
		UserId:         e.UserId,
		Text:           e.Text,
		Emotion:        e.Emotion,
		Confidence:     e.Confidence,
		Scores:         scores,
		Words:          words,
		ExplainedLabel: e.ExplainedLabel,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *JournalMapper) ToModel(e *entity.JournalEntry) *model.JournalEntry {
	if e == nil {
		return nil
	}
	scores := make([]model.EmotionScoreJSON, len(e.Scores))
	for i, s := range e.Scores {
		scores[i] = model.EmotionScoreJSON{Label: s.Label, Confidence: s.Confidence}
	}
	words := make([]model.WordScoreJSON, len(e.Words))
	for i, w := range e.Words {
		words[i] = model.WordScoreJSON{Word: w.Word, Score: w.Score}
	}
	return &model.JournalEntry{
		Id:             e.Id,
		UserId:         e.UserId,
		Text:           e.Text,
		Emotion:        e.Emotion,
		Confidence:     e.Confidence,
		Scores:         scores,
		Words:          words,
		ExplainedLabel: e.ExplainedLabel,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *JournalMapper) ToEntities(entries []*model.JournalEntry) []*entity.JournalEntry {
	out := make([]*entity.JournalEntry, len(entries))
	for i, e := range entries {
		out[i] = m.ToEntity(e)
	}
	return out
}

func (m *JournalMapper) CheckInToEntity(c *model.CheckIn) *entity.CheckIn {
	if c == nil {
		return nil
	}
	return &entity.CheckIn{
		Id:        c.Id,
		UserId:    c.UserId,
		Mood:      c.Mood,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

func (m *JournalMapper) CheckInToModel(c *entity.CheckIn) *model.CheckIn {
	if c == nil {
		return nil
	}
	return &model.CheckIn{
		Id:        c.Id,
		UserId:    c.UserId,
		Mood:      c.Mood,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}
