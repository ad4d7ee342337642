package contract

import (
	"context"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Preferences
	FindPreference(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error)
	SavePreference(ctx context.Context, pref *entity.UserPreference) error
	DeletePreference(ctx context.Context, userId uuid.UUID) error

	// Queries/Stats
	ListSummaries(ctx context.Context, query string, limit, offset int) ([]*entity.UserSummary, error)
	RegistrationsByMonth(ctx context.Context, loc *time.Location) ([]entity.DateCount, error)
}
