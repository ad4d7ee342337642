package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmotionScoreJSON struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type WordScoreJSON struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type JournalEntry struct {
	Id             uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID                             `gorm:"type:uuid;not null;index:idx_journal_user_created,priority:1"`
	Text           string                                `gorm:"type:text;not null"`
	Emotion        string                                `gorm:"type:varchar(50);not null;index"`
	Confidence     float64                               `gorm:"not null"`
	Scores         datatypes.JSONSlice[EmotionScoreJSON] `gorm:"type:jsonb"`
	Words          datatypes.JSONSlice[WordScoreJSON]    `gorm:"type:jsonb"`
	ExplainedLabel string                                `gorm:"type:varchar(50)"`
	CreatedAt      time.Time                             `gorm:"autoCreateTime;index:idx_journal_user_created,priority:2"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

type CheckIn struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_checkins_user_created,priority:1"`
	Mood      int       `gorm:"not null"`
	Note      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_checkins_user_created,priority:2"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}
