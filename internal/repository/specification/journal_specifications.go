package specification

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ByEmotion filters by the saved primary emotion. Empty or "All" matches
// everything.
type ByEmotion struct {
	Emotion string
}

func (s ByEmotion) Apply(db *gorm.DB) *gorm.DB {
	if s.Emotion == "" || strings.EqualFold(s.Emotion, "all") {
		return db
	}
	return db.Where("emotion = ?", strings.ToLower(s.Emotion))
}

// NotEmotion drops entries saved under one emotion. Empty matches
// everything.
type NotEmotion struct {
	Emotion string
}

func (s NotEmotion) Apply(db *gorm.DB) *gorm.DB {
	if s.Emotion == "" {
		return db
	}
	return db.Where("emotion <> ?", strings.ToLower(s.Emotion))
}

// CreatedBetween bounds created_at to [From, To). Zero bounds are open.
type CreatedBetween struct {
	From time.Time
	To   time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if !s.From.IsZero() {
		db = db.Where("created_at >= ?", s.From)
	}
	if !s.To.IsZero() {
		db = db.Where("created_at < ?", s.To)
	}
	return db
}

func CreatedSince(t time.Time) Specification {
	return CreatedBetween{From: t}
}
