package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/pkg/insight"

	"github.com/google/uuid"
)

const (
	summaryWindow   = 7 * 24 * time.Hour
	checkInInterval = 7 * 24 * time.Hour
	maxActivities   = 3
)

type IWellnessService interface {
	WeeklySummary(ctx context.Context, userId uuid.UUID) (*dto.WeeklySummaryResponse, error)
	Prompt(ctx context.Context) *dto.PromptResponse
	Activities(ctx context.Context) *dto.ActivitiesResponse
	Resources(ctx context.Context) []insight.Resource

	CheckInStatus(ctx context.Context, userId uuid.UUID) (*dto.CheckInStatusResponse, error)
	CreateCheckIn(ctx context.Context, userId uuid.UUID, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	ListCheckIns(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.CheckInResponse, error)
	// RemindDueCheckIns publishes CHECKIN_DUE for every active user whose
	// check-in is due and returns how many were reminded.
	RemindDueCheckIns(ctx context.Context) (int, error)
}

type wellnessService struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    *insight.Catalog
	events     EventPublisher
	location   *time.Location
	now        func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewWellnessService(uowFactory unitofwork.RepositoryFactory, catalog *insight.Catalog, events EventPublisher, location *time.Location) IWellnessService {
	if location == nil {
		location = time.UTC
	}
	return &wellnessService{
		uowFactory: uowFactory,
		catalog:    catalog,
		events:     events,
		location:   location,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
}

func (s *wellnessService) WeeklySummary(ctx context.Context, userId uuid.UUID) (*dto.WeeklySummaryResponse, error) {
	to := s.now()
	from := to.Add(-summaryWindow)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.JournalRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedSince(from),
	)
	if err != nil {
		return nil, err
	}

	pts := toPoints(entries, s.location)
	return &dto.WeeklySummaryResponse{
		Summary:      insight.WeeklySummary(pts),
		TotalEntries: len(pts),
		Emotions:     insight.Distribution(pts),
		From:         from.In(s.location),
		To:           to.In(s.location),
	}, nil
}

func (s *wellnessService) Prompt(ctx context.Context) *dto.PromptResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dto.PromptResponse{Prompt: s.catalog.Prompt(s.rng)}
}

func (s *wellnessService) Activities(ctx context.Context) *dto.ActivitiesResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dto.ActivitiesResponse{Activities: s.catalog.SuggestActivities(s.rng, maxActivities)}
}

func (s *wellnessService) Resources(ctx context.Context) []insight.Resource {
	return s.catalog.Resources
}

func toCheckInResponse(c *entity.CheckIn) *dto.CheckInResponse {
	return &dto.CheckInResponse{Id: c.Id, Mood: c.Mood, Note: c.Note, CreatedAt: c.CreatedAt}
}

// checkInDue reports whether a check-in is due given the last one.
func checkInDue(last *entity.CheckIn, now time.Time) bool {
	return last == nil || now.Sub(last.CreatedAt) >= checkInInterval
}

func (s *wellnessService) CheckInStatus(ctx context.Context, userId uuid.UUID) (*dto.CheckInStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	last, err := uow.CheckInRepository().Latest(ctx, userId)
	if err != nil {
		return nil, err
	}

	status := &dto.CheckInStatusResponse{Due: checkInDue(last, s.now())}
	if last != nil {
		lastAt := last.CreatedAt
		next := lastAt.Add(checkInInterval)
		status.LastCheckIn = &lastAt
		status.NextDueAt = &next
	}
	return status, nil
}

func (s *wellnessService) CreateCheckIn(ctx context.Context, userId uuid.UUID, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	checkIn := &entity.CheckIn{
		Id:        uuid.New(),
		UserId:    userId,
		Mood:      req.Mood,
		Note:      strings.TrimSpace(req.Note),
		CreatedAt: s.now(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CheckInRepository().Create(ctx, checkIn); err != nil {
		return nil, err
	}
	return toCheckInResponse(checkIn), nil
}

func (s *wellnessService) ListCheckIns(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.CheckInResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.CheckInRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Page(1, limit),
	)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CheckInResponse, len(items))
	for i, c := range items {
		out[i] = toCheckInResponse(c)
	}
	return out, nil
}

func (s *wellnessService) RemindDueCheckIns(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.ByRole{Role: string(entity.UserRoleUser)},
		specification.ByStatus{Status: string(entity.UserStatusActive)},
	)
	if err != nil {
		return 0, err
	}

	now := s.now()
	reminded := 0
	for _, u := range users {
		last, err := uow.CheckInRepository().Latest(ctx, u.Id)
		if err != nil {
			return reminded, err
		}
		if !checkInDue(last, now) {
			continue
		}
		days := -1
		if last != nil {
			days = int(now.Sub(last.CreatedAt) / (24 * time.Hour))
		}
		s.events.CheckInDue(ctx, u.Id, days)
		reminded++
	}
	return reminded, nil
}
