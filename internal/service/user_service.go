package service

import (
	"context"
	"strings"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	adminUser "ai-journaling-be/pkg/admin/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
	GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferencesResponse, error)
	UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.PreferencesRequest) (*dto.PreferencesResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	users      *adminUser.Manager
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, users *adminUser.Manager) IUserService {
	return &userService{uowFactory: uowFactory, users: users}
}

func (s *userService) findUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) tone(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.UserPreference, error) {
	pref, err := uow.UserRepository().FindPreference(ctx, userId)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = &entity.UserPreference{UserId: userId, Tone: entity.ToneNeutral}
	}
	return pref, nil
}

func toProfile(user *entity.User, tone entity.Tone) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		Id:          user.Id,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		Tone:        string(tone),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	pref, err := s.tone(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return toProfile(user, pref.Tone), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.UpdatedAt = time.Now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	pref, err := s.tone(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return toProfile(user, pref.Tone), nil
}

func (s *userService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uow.UserRepository().UpdatePassword(ctx, userId, string(hash))
}

func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findUser(ctx, uow, userId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.users.Purge(ctx, uow, userId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *userService) GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferencesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := s.tone(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return &dto.PreferencesResponse{Tone: string(pref.Tone), UpdatedAt: pref.UpdatedAt}, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.PreferencesRequest) (*dto.PreferencesResponse, error) {
	tone := entity.Tone(strings.ToLower(req.Tone))
	if !tone.Valid() {
		return nil, ErrInvalidTone
	}

	pref := &entity.UserPreference{UserId: userId, Tone: tone, UpdatedAt: time.Now()}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().SavePreference(ctx, pref); err != nil {
		return nil, err
	}
	return &dto.PreferencesResponse{Tone: string(pref.Tone), UpdatedAt: pref.UpdatedAt}, nil
}
