package dto

import (
	"time"

	"ai-journaling-be/pkg/insight"

	"github.com/google/uuid"
)

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

type UserListResponse struct {
	Id          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	EntryCount  int64      `json:"entry_count"`
	LastEntryAt *time.Time `json:"last_entry_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

type AdminDashboardStats struct {
	TotalUsers          int64   `json:"total_users"`
	ActiveUsers         int64   `json:"active_users"`
	InactiveUsers       int64   `json:"inactive_users"`
	TotalEntries        int64   `json:"total_entries"`
	AvgEntriesPerUser   float64 `json:"avg_entries_per_user"`
	AvgConfidence       float64 `json:"avg_confidence"`
	EntriesThisWeek     int64   `json:"entries_this_week"`
	DatabaseSizeMB      float64 `json:"database_size_mb"`
	GeneratedAt         string  `json:"generated_at"`
	ActiveWindowDays    int     `json:"active_window_days"`
	UnclassifiedEntries int64   `json:"unclassified_entries"`
}

type DateCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type WeeklyEmotionResponse struct {
	Week    string `json:"week"`
	Emotion string `json:"emotion"`
	Count   int64  `json:"count"`
}

type AdminChartsResponse struct {
	RegistrationsByMonth []DateCountResponse     `json:"registrations_by_month"`
	ActivityByDay        []DateCountResponse     `json:"activity_by_day"`
	EmotionDistribution  []insight.EmotionCount  `json:"emotion_distribution"`
	WeeklyTrends         []WeeklyEmotionResponse `json:"weekly_trends"`
}

type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}
