package contract

import (
	"context"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
)

type JournalRepository interface {
	Create(ctx context.Context, entry *entity.JournalEntry) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JournalEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JournalEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Aggregates. Specs narrow the rows before grouping.
	AverageConfidence(ctx context.Context, specs ...specification.Specification) (float64, error)
	CountDistinctUsers(ctx context.Context, specs ...specification.Specification) (int64, error)
	EmotionTotals(ctx context.Context, specs ...specification.Specification) ([]entity.EmotionTotal, error)
	// Day and week buckets follow loc, not the database session zone.
	ActivityByDay(ctx context.Context, loc *time.Location, specs ...specification.Specification) ([]entity.DateCount, error)
	WeeklyEmotionCounts(ctx context.Context, loc *time.Location, specs ...specification.Specification) ([]entity.WeeklyEmotionCount, error)
}

type CheckInRepository interface {
	Create(ctx context.Context, checkIn *entity.CheckIn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheckIn, error)
	Latest(ctx context.Context, userId uuid.UUID) (*entity.CheckIn, error)
	DeleteByUser(ctx context.Context, userId uuid.UUID) error
}

type SystemRepository interface {
	DatabaseSizeMB(ctx context.Context) (float64, error)
}
