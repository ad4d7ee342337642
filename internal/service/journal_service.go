package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/insight"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// TopicEntrySaved carries dto.EntrySavedMessage to in-process consumers.
const TopicEntrySaved = "journal.entry.saved"

const dateLayout = "2006-01-02"

// EmotionAnalyzer runs the classification and explanation pipeline.
type EmotionAnalyzer interface {
	Analyze(ctx context.Context, text string) (*insight.Analysis, error)
	Catalog() *insight.Catalog
}

type IJournalService interface {
	Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	ListEntries(ctx context.Context, userId uuid.UUID, req *dto.EntryListRequest) ([]*dto.EntryResponse, int64, error)
	GetEntry(ctx context.Context, userId, entryId uuid.UUID) (*dto.EntryResponse, error)
	DeleteEntry(ctx context.Context, userId, entryId uuid.UUID) error
	LastEntry(ctx context.Context, userId uuid.UUID) (*dto.EntryResponse, error)

	Calendar(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.DayMood, error)
	WeeklyTrend(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.WeekMood, error)
	Distribution(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.EmotionCount, error)
	Trends(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.TrendPoint, error)
	Insights(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) (*insight.MoodInsights, error)
}

type JournalOptions struct {
	// PersistUnclassified stores entries without a confident emotion under
	// UnclassifiedLabel instead of dropping them.
	PersistUnclassified bool
	UnclassifiedLabel   string
	Location            *time.Location
}

type journalService struct {
	uowFactory unitofwork.RepositoryFactory
	analyzer   EmotionAnalyzer
	events     EventPublisher
	jobs       message.Publisher
	opts       JournalOptions
}

func NewJournalService(uowFactory unitofwork.RepositoryFactory, analyzer EmotionAnalyzer, events EventPublisher, jobs message.Publisher, opts JournalOptions) IJournalService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &journalService{
		uowFactory: uowFactory,
		analyzer:   analyzer,
		events:     events,
		jobs:       jobs,
		opts:       opts,
	}
}

func (s *journalService) Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	res, err := s.analyzer.Analyze(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyzeResponse{
		Emotions:       res.Emotions,
		Primary:        res.Primary,
		Scores:         res.Scores,
		TopConfidences: res.TopConfidences,
		Explained:      res.Explained,
		ExplainedLabel: res.ExplainedLabel,
		Words:          res.Words,
		ChartWords:     res.ChartWords,
		Card:           res.Card,
		Notices:        res.Notices,
	}
	if resp.Notices == nil {
		resp.Notices = []insight.Notice{}
	}

	entry := s.toEntry(userId, req.Text, res)
	if entry == nil {
		return resp, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.JournalRepository().Create(ctx, entry); err != nil {
		return nil, err
	}
	resp.EntryId = &entry.Id

	s.events.JournalEntryCreated(ctx, entry)
	s.enqueueSaved(entry)
	return resp, nil
}

// toEntry returns nil when the analysis should not be stored.
func (s *journalService) toEntry(userId uuid.UUID, text string, res *insight.Analysis) *entity.JournalEntry {
	entry := &entity.JournalEntry{
		Id:             uuid.New(),
		UserId:         userId,
		Text:           text,
		ExplainedLabel: res.ExplainedLabel,
		CreatedAt:      time.Now(),
	}

	switch {
	case res.Primary != nil:
		entry.Emotion = res.Primary.Label
		entry.Confidence = res.Primary.Probability
	case s.opts.PersistUnclassified:
		entry.Emotion = s.opts.UnclassifiedLabel
		if len(res.Scores) > 0 {
			entry.Confidence = res.Scores[0].Probability
		}
	default:
		return nil
	}

	entry.Scores = make([]entity.EmotionScore, len(res.Scores))
	for i, sc := range res.Scores {
		entry.Scores[i] = entity.EmotionScore{Label: sc.Label, Confidence: sc.Probability}
	}
	entry.Words = make([]entity.WordContribution, len(res.Words))
	for i, w := range res.Words {
		entry.Words[i] = entity.WordContribution{Word: w.Word, Score: w.Score}
	}
	return entry
}

func (s *journalService) enqueueSaved(entry *entity.JournalEntry) {
	if s.jobs == nil {
		return
	}
	payload, err := json.Marshal(dto.EntrySavedMessage{
		EntryId:   entry.Id,
		UserId:    entry.UserId,
		Emotion:   entry.Emotion,
		CreatedAt: entry.CreatedAt,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to encode entry-saved message: %v", err)
		return
	}
	if err := s.jobs.Publish(TopicEntrySaved, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		log.Printf("[ERROR] Failed to publish entry-saved message: %v", err)
	}
}

func (s *journalService) toResponse(e *entity.JournalEntry) *dto.EntryResponse {
	scores := make([]emotion.Score, len(e.Scores))
	for i, sc := range e.Scores {
		scores[i] = emotion.Score{Label: sc.Label, Probability: sc.Confidence}
	}
	words := make([]dto.WordScoreResponse, len(e.Words))
	for i, w := range e.Words {
		words[i] = dto.WordScoreResponse{Word: w.Word, Score: w.Score}
	}
	return &dto.EntryResponse{
		Id:             e.Id,
		Text:           e.Text,
		Emotion:        e.Emotion,
		Confidence:     e.Confidence,
		Scores:         scores,
		Words:          words,
		ExplainedLabel: e.ExplainedLabel,
		Color:          s.analyzer.Catalog().Color(e.Emotion),
		CreatedAt:      e.CreatedAt,
	}
}

// rangeSpec turns inclusive YYYY-MM-DD bounds, read in the app timezone,
// into a created_at filter.
func (s *journalService) rangeSpec(from, to string) (specification.CreatedBetween, error) {
	var spec specification.CreatedBetween
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, s.opts.Location)
		if err != nil {
			return spec, ErrInvalidDateRange
		}
		spec.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, s.opts.Location)
		if err != nil {
			return spec, ErrInvalidDateRange
		}
		spec.To = t.AddDate(0, 0, 1)
	}
	if !spec.From.IsZero() && !spec.To.IsZero() && !spec.From.Before(spec.To) {
		return spec, ErrInvalidDateRange
	}
	return spec, nil
}

func (s *journalService) ListEntries(ctx context.Context, userId uuid.UUID, req *dto.EntryListRequest) ([]*dto.EntryResponse, int64, error) {
	between, err := s.rangeSpec(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	filters := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.ByEmotion{Emotion: req.Emotion},
		between,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.JournalRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}
	entries, err := uow.JournalRepository().FindAll(ctx, append(filters, specification.Page(req.Page, req.Limit))...)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*dto.EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = s.toResponse(e)
	}
	return out, total, nil
}

func (s *journalService) GetEntry(ctx context.Context, userId, entryId uuid.UUID) (*dto.EntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: entryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return s.toResponse(entry), nil
}

func (s *journalService) DeleteEntry(ctx context.Context, userId, entryId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := uow.JournalRepository().Delete(ctx,
		specification.ByID{ID: entryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *journalService) LastEntry(ctx context.Context, userId uuid.UUID) (*dto.EntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.JournalRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEntryNotFound
	}
	return s.toResponse(entries[0]), nil
}

// points loads the user's entries in range as aggregation input, with
// timestamps in the app timezone so days and weeks split locally.
func (s *journalService) points(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.EntryPoint, error) {
	between, err := s.rangeSpec(req.From, req.To)
	if err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.JournalRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId}, between)
	if err != nil {
		return nil, err
	}
	return toPoints(entries, s.opts.Location), nil
}

func toPoints(entries []*entity.JournalEntry, loc *time.Location) []insight.EntryPoint {
	out := make([]insight.EntryPoint, len(entries))
	for i, e := range entries {
		out[i] = insight.EntryPoint{Emotion: e.Emotion, Confidence: e.Confidence, CreatedAt: e.CreatedAt.In(loc)}
	}
	return out
}

func (s *journalService) Calendar(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.DayMood, error) {
	pts, err := s.points(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	return insight.DailyMoods(pts, s.analyzer.Catalog()), nil
}

func (s *journalService) WeeklyTrend(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.WeekMood, error) {
	pts, err := s.points(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	return insight.WeeklyMoods(pts), nil
}

func (s *journalService) Distribution(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.EmotionCount, error) {
	pts, err := s.points(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	return insight.Distribution(pts), nil
}

func (s *journalService) Trends(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) ([]insight.TrendPoint, error) {
	pts, err := s.points(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	return insight.Trends(pts), nil
}

func (s *journalService) Insights(ctx context.Context, userId uuid.UUID, req *dto.DateRangeRequest) (*insight.MoodInsights, error) {
	pts, err := s.points(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	in := insight.Summarize(pts)
	return &in, nil
}
