package implementation

import (
	"context"
	"errors"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/mapper"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/repository/contract"
	"ai-journaling-be/internal/repository/scope"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalMapper
}

func NewJournalRepository(db *gorm.DB) contract.JournalRepository {
	return &JournalRepositoryImpl{
		db:     db,
		mapper: mapper.NewJournalMapper(),
	}
}

func (r *JournalRepositoryImpl) query(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	return applySpecifications(r.db.WithContext(ctx).Model(&model.JournalEntry{}), specs...)
}

func (r *JournalRepositoryImpl) Create(ctx context.Context, entry *entity.JournalEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JournalEntry, error) {
	var m model.JournalEntry
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// FindAll sorts by any OrderBy given, then newest first.
func (r *JournalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JournalEntry, error) {
	var rows []*model.JournalEntry
	q := applySpecifications(r.db.WithContext(ctx), specs...).Scopes(scope.OrderByCreatedDesc)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *JournalRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := r.query(ctx, specs...).Count(&count).Error
	return count, err
}

// Delete removes the matching rows. Specs are required; gorm refuses an
// unconditioned delete.
func (r *JournalRepositoryImpl) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	res := applySpecifications(r.db.WithContext(ctx), specs...).Delete(&model.JournalEntry{})
	return res.RowsAffected, res.Error
}

func (r *JournalRepositoryImpl) AverageConfidence(ctx context.Context, specs ...specification.Specification) (float64, error) {
	var avg float64
	err := r.query(ctx, specs...).Select("COALESCE(AVG(confidence), 0)").Scan(&avg).Error
	return avg, err
}

func (r *JournalRepositoryImpl) CountDistinctUsers(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := r.query(ctx, specs...).Distinct("user_id").Count(&count).Error
	return count, err
}

func (r *JournalRepositoryImpl) EmotionTotals(ctx context.Context, specs ...specification.Specification) ([]entity.EmotionTotal, error) {
	var rows []entity.EmotionTotal
	err := r.query(ctx, specs...).
		Select("emotion, COUNT(*) AS count").
		Group("emotion").
		Order("count DESC, emotion ASC").
		Scan(&rows).Error
	return rows, err
}

// ActivityByDay buckets entries by calendar day in loc.
func (r *JournalRepositoryImpl) ActivityByDay(ctx context.Context, loc *time.Location, specs ...specification.Specification) ([]entity.DateCount, error) {
	var rows []entity.DateCount
	err := activityByDay(r.query(ctx, specs...), loc).Scan(&rows).Error
	return rows, err
}

// WeeklyEmotionCounts groups by ISO week in loc (postgres weeks start on Monday).
func (r *JournalRepositoryImpl) WeeklyEmotionCounts(ctx context.Context, loc *time.Location, specs ...specification.Specification) ([]entity.WeeklyEmotionCount, error) {
	var rows []entity.WeeklyEmotionCount
	err := weeklyEmotionCounts(r.query(ctx, specs...), loc).Scan(&rows).Error
	return rows, err
}

func activityByDay(q *gorm.DB, loc *time.Location) *gorm.DB {
	return q.Select("to_char(created_at AT TIME ZONE ?, 'YYYY-MM-DD') AS date, COUNT(*) AS count", zoneName(loc)).
		Group("date").
		Order("date ASC")
}

func weeklyEmotionCounts(q *gorm.DB, loc *time.Location) *gorm.DB {
	return q.Select("to_char(date_trunc('week', created_at AT TIME ZONE ?), 'YYYY-MM-DD') AS week, emotion, COUNT(*) AS count", zoneName(loc)).
		Group("week, emotion").
		Order("week ASC, count DESC, emotion ASC")
}

// zoneName is the IANA name handed to AT TIME ZONE. postgres does not know
// "Local", so the process zone falls back to UTC.
func zoneName(loc *time.Location) string {
	if loc == nil || loc == time.Local {
		return "UTC"
	}
	return loc.String()
}

type CheckInRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalMapper
}

func NewCheckInRepository(db *gorm.DB) contract.CheckInRepository {
	return &CheckInRepositoryImpl{db: db, mapper: mapper.NewJournalMapper()}
}

func (r *CheckInRepositoryImpl) Create(ctx context.Context, checkIn *entity.CheckIn) error {
	m := r.mapper.CheckInToModel(checkIn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*checkIn = *r.mapper.CheckInToEntity(m)
	return nil
}

func (r *CheckInRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheckIn, error) {
	var rows []*model.CheckIn
	q := applySpecifications(r.db.WithContext(ctx), specs...).Scopes(scope.OrderByCreatedDesc)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CheckIn, len(rows))
	for i, row := range rows {
		out[i] = r.mapper.CheckInToEntity(row)
	}
	return out, nil
}

func (r *CheckInRepositoryImpl) Latest(ctx context.Context, userId uuid.UUID) (*entity.CheckIn, error) {
	var rows []*model.CheckIn
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).Scopes(scope.Latest).Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return r.mapper.CheckInToEntity(rows[0]), nil
}

func (r *CheckInRepositoryImpl) DeleteByUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.CheckIn{}).Error
}

type SystemRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemRepository(db *gorm.DB) contract.SystemRepository {
	return &SystemRepositoryImpl{db: db}
}

func (r *SystemRepositoryImpl) DatabaseSizeMB(ctx context.Context) (float64, error) {
	var bytes int64
	if err := r.db.WithContext(ctx).Raw("SELECT pg_database_size(current_database())").Scan(&bytes).Error; err != nil {
		return 0, err
	}
	return float64(bytes) / (1024 * 1024), nil
}
