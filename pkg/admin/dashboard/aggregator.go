package dashboard

import (
	"context"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/pkg/insight"

	"golang.org/x/sync/errgroup"
)

// ActiveWindow is how recently a user must have written to count as active.
const ActiveWindow = 7 * 24 * time.Hour

// logTimeLayout matches zapcore.ISO8601TimeEncoder.
const logTimeLayout = "2006-01-02T15:04:05.000Z0700"

// Aggregator computes the admin dashboard numbers and charts. Day, week and
// month buckets are cut in location.
type Aggregator struct {
	logger            logger.ILogger
	unclassifiedLabel string
	location          *time.Location
	now               func() time.Time
}

func NewAggregator(logger logger.ILogger, unclassifiedLabel string, location *time.Location) *Aggregator {
	if location == nil {
		location = time.UTC
	}
	return &Aggregator{logger: logger, unclassifiedLabel: unclassifiedLabel, location: location, now: time.Now}
}

// GetStats runs the independent counts concurrently. The unit of work must
// not be inside a transaction.
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	now := a.now()
	since := specification.CreatedSince(now.Add(-ActiveWindow))

	var (
		stats  dto.AdminDashboardStats
		sizeMB float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = uow.UserRepository().Count(gctx, specification.ByRole{Role: string(entity.UserRoleUser)})
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveUsers, err = uow.JournalRepository().CountDistinctUsers(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalEntries, err = uow.JournalRepository().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.EntriesThisWeek, err = uow.JournalRepository().Count(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		// unclassified rows hold a below-threshold top score
		stats.AvgConfidence, err = uow.JournalRepository().AverageConfidence(gctx, specification.NotEmotion{Emotion: a.unclassifiedLabel})
		return err
	})
	g.Go(func() (err error) {
		stats.UnclassifiedEntries, err = uow.JournalRepository().Count(gctx, specification.ByEmotion{Emotion: a.unclassifiedLabel})
		return err
	})
	g.Go(func() error {
		// size is informational; a permission error must not hide the rest
		var err error
		if sizeMB, err = uow.SystemRepository().DatabaseSizeMB(gctx); err != nil {
			a.logger.Warn("ADMIN", "Failed to read database size", map[string]interface{}{"error": err.Error()})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.DatabaseSizeMB = sizeMB
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	if stats.InactiveUsers < 0 {
		stats.InactiveUsers = 0
	}
	if stats.TotalUsers > 0 {
		stats.AvgEntriesPerUser = float64(stats.TotalEntries) / float64(stats.TotalUsers)
	}
	stats.ActiveWindowDays = int(ActiveWindow / (24 * time.Hour))
	stats.GeneratedAt = now.UTC().Format(time.RFC3339)
	return &stats, nil
}

// GetCharts returns the data behind the dashboard charts.
func (a *Aggregator) GetCharts(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminChartsResponse, error) {
	var (
		regs     []entity.DateCount
		activity []entity.DateCount
		totals   []entity.EmotionTotal
		weekly   []entity.WeeklyEmotionCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { regs, err = uow.UserRepository().RegistrationsByMonth(gctx, a.location); return err })
	g.Go(func() (err error) { activity, err = uow.JournalRepository().ActivityByDay(gctx, a.location); return err })
	g.Go(func() (err error) { totals, err = uow.JournalRepository().EmotionTotals(gctx); return err })
	g.Go(func() (err error) { weekly, err = uow.JournalRepository().WeeklyEmotionCounts(gctx, a.location); return err })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.AdminChartsResponse{
		RegistrationsByMonth: toDateCounts(regs),
		ActivityByDay:        toDateCounts(activity),
		EmotionDistribution:  toEmotionCounts(totals),
		WeeklyTrends:         toWeekly(weekly),
	}, nil
}

func toDateCounts(rows []entity.DateCount) []dto.DateCountResponse {
	out := make([]dto.DateCountResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.DateCountResponse{Date: r.Date, Count: r.Count}
	}
	return out
}

func toEmotionCounts(rows []entity.EmotionTotal) []insight.EmotionCount {
	out := make([]insight.EmotionCount, len(rows))
	for i, r := range rows {
		out[i] = insight.EmotionCount{Emotion: r.Emotion, Count: int(r.Count)}
	}
	return out
}

func toWeekly(rows []entity.WeeklyEmotionCount) []dto.WeeklyEmotionResponse {
	out := make([]dto.WeeklyEmotionResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.WeeklyEmotionResponse{Week: r.Week, Emotion: r.Emotion, Count: r.Count}
	}
	return out
}

// GetSystemLogs pages through the application log, newest first.
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, page, limit int, level string) ([]*dto.LogListResponse, error) {
	p := specification.Page(page, limit)
	logs, err := loggerSvc.GetLogs(level, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toLogListResponse(l))
	}
	return res, nil
}

func toLogListResponse(l logger.LogEntry) *dto.LogListResponse {
	ts, _ := time.Parse(logTimeLayout, l.Timestamp)
	return &dto.LogListResponse{
		Id:        l.Id,
		Level:     l.Level,
		Module:    l.Module,
		Message:   l.Message,
		CreatedAt: ts,
	}
}

func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}
	return &dto.LogDetailResponse{
		LogListResponse: *toLogListResponse(*l),
		Details:         l.Details,
	}, nil
}
