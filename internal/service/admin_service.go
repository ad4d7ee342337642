package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/cache"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/pkg/admin/dashboard"
	adminUser "ai-journaling-be/pkg/admin/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsCacheKey holds the serialized dashboard stats.
const StatsCacheKey = "admin:stats"

const statsTTL = 60 * time.Second

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	GetCharts(ctx context.Context) (*dto.AdminChartsResponse, error)

	GetAllUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error)
	UpdateUserStatus(ctx context.Context, adminId, userId uuid.UUID, req *dto.UpdateUserStatusRequest) error
	DeleteUser(ctx context.Context, adminId, userId uuid.UUID) error

	ExportUsersCSV(ctx context.Context, w io.Writer) error
	ExportEntriesCSV(ctx context.Context, w io.Writer) error
	ExportReportCSV(ctx context.Context, w io.Writer) error

	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, id string) (*dto.LogDetailResponse, error)

	Broadcast(ctx context.Context, req *dto.BroadcastRequest) error
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	aggregator *dashboard.Aggregator
	users      *adminUser.Manager
	cache      cache.Cache
	events     EventPublisher
	logger     logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	aggregator *dashboard.Aggregator,
	users *adminUser.Manager,
	statsCache cache.Cache,
	events EventPublisher,
	logger logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		aggregator: aggregator,
		users:      users,
		cache:      statsCache,
		events:     events,
		logger:     logger,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	if raw, ok := s.cache.Get(ctx, StatsCacheKey); ok {
		var stats dto.AdminDashboardStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.aggregator.GetStats(ctx, s.uowFactory.NewUnitOfWork(ctx))
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, StatsCacheKey, raw, statsTTL)
	}
	return stats, nil
}

func (s *adminService) GetCharts(ctx context.Context) (*dto.AdminChartsResponse, error) {
	return s.aggregator.GetCharts(ctx, s.uowFactory.NewUnitOfWork(ctx))
}

func (s *adminService) GetAllUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error) {
	users, err := s.users.List(ctx, s.uowFactory.NewUnitOfWork(ctx), req.Page, req.Limit, req.Search)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserListResponse, len(users))
	for i, u := range users {
		res[i] = &dto.UserListResponse{
			Id:          u.Id,
			Email:       u.Email,
			FullName:    u.FullName,
			Role:        string(u.Role),
			Status:      string(u.Status),
			EntryCount:  u.EntryCount,
			LastEntryAt: u.LastEntryAt,
			LastLoginAt: u.LastLoginAt,
			CreatedAt:   u.CreatedAt,
		}
	}
	return res, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, adminId, userId uuid.UUID, req *dto.UpdateUserStatusRequest) error {
	if adminId == userId {
		return ErrModifySelf
	}
	status := entity.UserStatus(req.Status)
	if status != entity.UserStatusActive && status != entity.UserStatusBlocked {
		return ErrInvalidStatus
	}

	err := s.users.UpdateStatus(ctx, s.uowFactory.NewUnitOfWork(ctx), adminId, userId, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *adminService) DeleteUser(ctx context.Context, adminId, userId uuid.UUID) error {
	if adminId == userId {
		return ErrModifySelf
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.users.FindOne(ctx, uow, userId)
	if errors.Is(err, adminUser.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.users.Purge(ctx, uow, userId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.Delete(ctx, StatsCacheKey)
	s.events.UserDeleted(ctx, user, adminId)
	return nil
}

func (s *adminService) ExportUsersCSV(ctx context.Context, w io.Writer) error {
	return s.aggregator.WriteUsersCSV(ctx, s.uowFactory.NewUnitOfWork(ctx), w)
}

func (s *adminService) ExportEntriesCSV(ctx context.Context, w io.Writer) error {
	return s.aggregator.WriteEntriesCSV(ctx, s.uowFactory.NewUnitOfWork(ctx), w)
}

func (s *adminService) ExportReportCSV(ctx context.Context, w io.Writer) error {
	return s.aggregator.WriteReportCSV(ctx, s.uowFactory.NewUnitOfWork(ctx), w)
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	return s.aggregator.GetSystemLogs(ctx, s.logger, page, limit, level)
}

func (s *adminService) GetLogDetail(ctx context.Context, id string) (*dto.LogDetailResponse, error) {
	return s.aggregator.GetLogDetail(ctx, s.logger, id)
}

func (s *adminService) Broadcast(ctx context.Context, req *dto.BroadcastRequest) error {
	s.events.SystemBroadcast(ctx, req.Title, req.Message)
	s.logger.Info("ADMIN", "Broadcast queued", map[string]interface{}{"title": req.Title})
	return nil
}

func (s *adminService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	created, err := s.users.EnsureAdmin(ctx, s.uowFactory.NewUnitOfWork(ctx), normalizeEmail(email), password)
	if err != nil {
		return false, err
	}
	if created {
		log.Printf("[INFO] Admin account %s created", email)
	}
	return created, nil
}
