package implementation

import (
	"context"
	"errors"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/mapper"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/repository/contract"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

// FindOne returns (nil, nil) when nothing matches.
func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var modelUsers []*model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelUsers).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(modelUsers), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *UserRepositoryImpl) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

// Preferences

func (r *UserRepositoryImpl) FindPreference(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error) {
	var m model.UserPreference
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PreferenceToEntity(&m), nil
}

func (r *UserRepositoryImpl) SavePreference(ctx context.Context, pref *entity.UserPreference) error {
	m := r.mapper.PreferenceToModel(pref)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tone", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*pref = *r.mapper.PreferenceToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) DeletePreference(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserPreference{}).Error
}

// Queries/Stats

func (r *UserRepositoryImpl) ListSummaries(ctx context.Context, query string, limit, offset int) ([]*entity.UserSummary, error) {
	var rows []struct {
		model.User
		EntryCount  int64      `gorm:"column:entry_count"`
		LastEntryAt *time.Time `gorm:"column:last_entry_at"`
	}

	q := r.db.WithContext(ctx).Table("users").
		Select("users.*, COUNT(journal_entries.id) AS entry_count, MAX(journal_entries.created_at) AS last_entry_at").
		Joins("LEFT JOIN journal_entries ON journal_entries.user_id = users.id")
	q = specification.SearchUsers{Query: query}.Apply(q)

	err := q.Group("users.id").
		Order("users.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.UserSummary, len(rows))
	for i := range rows {
		out[i] = &entity.UserSummary{
			User:        *r.mapper.ToEntity(&rows[i].User),
			EntryCount:  rows[i].EntryCount,
			LastEntryAt: rows[i].LastEntryAt,
		}
	}
	return out, nil
}

func (r *UserRepositoryImpl) RegistrationsByMonth(ctx context.Context, loc *time.Location) ([]entity.DateCount, error) {
	var rows []entity.DateCount
	err := registrationsByMonth(r.db.WithContext(ctx).Model(&model.User{}), loc).Scan(&rows).Error
	return rows, err
}

func registrationsByMonth(q *gorm.DB, loc *time.Location) *gorm.DB {
	return q.Select("to_char(created_at AT TIME ZONE ?, 'YYYY-MM') AS date, COUNT(*) AS count", zoneName(loc)).
		Group("date").
		Order("date ASC")
}
