package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/mailer"
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

// OTPStore keeps one pending reset code per email.
type OTPStore interface {
	Save(email, code string)
	Verify(email, code string) bool
	Delete(email string)
}

type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	otps         OTPStore
	events       EventPublisher
	opts         AuthOptions
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, otps OTPStore, events EventPublisher, opts AuthOptions) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		otps:         otps,
		events:       events,
		opts:         opts,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	pref := &entity.UserPreference{UserId: user.Id, Tone: entity.ToneNeutral, UpdatedAt: now}
	if err := uow.UserRepository().SavePreference(ctx, pref); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.events.UserRegistered(ctx, user)

	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.FullName); err != nil {
			log.Printf("[WARN] Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) authenticate(ctx context.Context, req *dto.LoginRequest) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, ErrAccountBlocked
	}

	now := time.Now()
	if err := uow.UserRepository().TouchLastLogin(ctx, user.Id, now); err != nil {
		log.Printf("[WARN] Failed to record login for %s: %v", user.Id, err)
	} else {
		user.LastLoginAt = &now
	}
	return user, nil
}

func (s *authService) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := serverutils.IssueToken(s.opts.JWTSecret, user.Id, string(user.Role), s.opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.opts.TokenTTL.Seconds()),
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	s.events.UserLogin(ctx, user)
	return s.issue(user)
}

func (s *authService) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrNotAdmin
	}
	s.events.UserLogin(ctx, user)
	return s.issue(user)
}

// ForgotPassword always succeeds for unknown emails so the endpoint cannot
// be used to probe for accounts.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	s.otps.Save(email, otp)

	if err := s.emailService.SendPasswordResetOTP(email, otp, s.opts.OTPTTL); err != nil {
		s.otps.Delete(email)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if !s.otps.Verify(email, req.OTP) {
		return ErrInvalidOTP
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uow.UserRepository().UpdatePassword(ctx, user.Id, string(hash)); err != nil {
		return err
	}
	s.otps.Delete(email)
	return nil
}
