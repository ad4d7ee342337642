package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/repository"
	"ai-journaling-be/internal/repository/contract"
	"ai-journaling-be/internal/repository/specification"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// store is an in-memory database shared by the fake repositories.
type store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	prefs         map[uuid.UUID]*entity.UserPreference
	entries       map[uuid.UUID]*entity.JournalEntry
	checkIns      map[uuid.UUID]*entity.CheckIn
	notifications []model.Notification
	types         map[string]*model.NotificationType
	commits       int
}

func newStore() *store {
	return &store{
		users:    make(map[uuid.UUID]*entity.User),
		prefs:    make(map[uuid.UUID]*entity.UserPreference),
		entries:  make(map[uuid.UUID]*entity.JournalEntry),
		checkIns: make(map[uuid.UUID]*entity.CheckIn),
		types:    make(map[string]*model.NotificationType),
	}
}

func (s *store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return &fakeUoW{s: s} }

type fakeUoW struct {
	s    *store
	inTx bool
}

func (u *fakeUoW) Begin(ctx context.Context) error { u.inTx = true; return nil }
func (u *fakeUoW) Commit() error {
	u.inTx = false
	u.s.mu.Lock()
	u.s.commits++
	u.s.mu.Unlock()
	return nil
}
func (u *fakeUoW) Rollback() error { u.inTx = false; return nil }

func (u *fakeUoW) UserRepository() contract.UserRepository       { return &fakeUsers{u.s} }
func (u *fakeUoW) JournalRepository() contract.JournalRepository { return &fakeJournal{u.s} }
func (u *fakeUoW) CheckInRepository() contract.CheckInRepository { return &fakeCheckIns{u.s} }
func (u *fakeUoW) SystemRepository() contract.SystemRepository   { return fakeSystem{} }
func (u *fakeUoW) NotificationRepository() repository.NotificationRepository {
	return &fakeNotifications{u.s}
}

// page extracts Pagination from specs; limit 0 means unlimited.
func page(specs []specification.Specification) (limit, offset int) {
	for _, sp := range specs {
		if p, ok := sp.(specification.Pagination); ok {
			return p.Limit, p.Offset
		}
	}
	return 0, 0
}

func paginate[T any](items []T, specs []specification.Specification) []T {
	limit, offset := page(specs)
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func inRange(t time.Time, b specification.CreatedBetween) bool {
	if !b.From.IsZero() && t.Before(b.From) {
		return false
	}
	if !b.To.IsZero() && !t.Before(b.To) {
		return false
	}
	return true
}

type fakeUsers struct{ s *store }

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if u.Id != v.ID {
				return false
			}
		case specification.ByEmail:
			if !strings.EqualFold(u.Email, v.Email) {
				return false
			}
		case specification.ByRole:
			if string(u.Role) != v.Role {
				return false
			}
		case specification.ByStatus:
			if string(u.Status) != v.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeUsers) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.Id] = &cp
	return nil
}

func (r *fakeUsers) Update(ctx context.Context, user *entity.User) error { return r.Create(ctx, user) }

func (r *fakeUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *fakeUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeUsers) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if matchUser(u, specs) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, specs), nil
}

func (r *fakeUsers) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeUsers) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUsers) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUsers) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *fakeUsers) FindPreference(ctx context.Context, userId uuid.UUID) (*entity.UserPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prefs[userId]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeUsers) SavePreference(ctx context.Context, pref *entity.UserPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *pref
	r.s.prefs[pref.UserId] = &cp
	return nil
}

func (r *fakeUsers) DeletePreference(ctx context.Context, userId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.prefs, userId)
	return nil
}

func (r *fakeUsers) ListSummaries(ctx context.Context, query string, limit, offset int) ([]*entity.UserSummary, error) {
	users, _ := r.FindAll(ctx)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.UserSummary
	for _, u := range users {
		if query != "" && !strings.Contains(u.Email, query) {
			continue
		}
		sum := &entity.UserSummary{User: *u}
		for _, e := range r.s.entries {
			if e.UserId == u.Id {
				sum.EntryCount++
				if sum.LastEntryAt == nil || e.CreatedAt.After(*sum.LastEntryAt) {
					at := e.CreatedAt
					sum.LastEntryAt = &at
				}
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

func (r *fakeUsers) RegistrationsByMonth(ctx context.Context, loc *time.Location) ([]entity.DateCount, error) {
	return nil, nil
}

type fakeJournal struct{ s *store }

func matchEntry(e *entity.JournalEntry, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if e.Id != v.ID {
				return false
			}
		case specification.UserOwnedBy:
			if e.UserId != v.UserID {
				return false
			}
		case specification.ByEmotion:
			if v.Emotion != "" && !strings.EqualFold(v.Emotion, "all") && e.Emotion != strings.ToLower(v.Emotion) {
				return false
			}
		case specification.NotEmotion:
			if v.Emotion != "" && e.Emotion == strings.ToLower(v.Emotion) {
				return false
			}
		case specification.CreatedBetween:
			if !inRange(e.CreatedAt, v) {
				return false
			}
		}
	}
	return true
}

func (r *fakeJournal) Create(ctx context.Context, entry *entity.JournalEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.entries[entry.Id] = &cp
	return nil
}

func (r *fakeJournal) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JournalEntry, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeJournal) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JournalEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.JournalEntry
	for _, e := range r.s.entries {
		if matchEntry(e, specs) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, specs), nil
}

func (r *fakeJournal) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeJournal) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range all {
		delete(r.s.entries, e.Id)
	}
	return int64(len(all)), nil
}

func (r *fakeJournal) AverageConfidence(ctx context.Context, specs ...specification.Specification) (float64, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, e := range all {
		sum += e.Confidence
	}
	return sum / float64(len(all)), nil
}

func (r *fakeJournal) CountDistinctUsers(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	seen := make(map[uuid.UUID]bool)
	for _, e := range all {
		seen[e.UserId] = true
	}
	return int64(len(seen)), nil
}

func (r *fakeJournal) EmotionTotals(ctx context.Context, specs ...specification.Specification) ([]entity.EmotionTotal, error) {
	return nil, nil
}

func (r *fakeJournal) ActivityByDay(ctx context.Context, loc *time.Location, specs ...specification.Specification) ([]entity.DateCount, error) {
	return nil, nil
}

func (r *fakeJournal) WeeklyEmotionCounts(ctx context.Context, loc *time.Location, specs ...specification.Specification) ([]entity.WeeklyEmotionCount, error) {
	return nil, nil
}

type fakeCheckIns struct{ s *store }

func (r *fakeCheckIns) Create(ctx context.Context, c *entity.CheckIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.checkIns[c.Id] = &cp
	return nil
}

func (r *fakeCheckIns) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CheckIn
	for _, c := range r.s.checkIns {
		keep := true
		for _, sp := range specs {
			if v, ok := sp.(specification.UserOwnedBy); ok && c.UserId != v.UserID {
				keep = false
			}
		}
		if keep {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, specs), nil
}

func (r *fakeCheckIns) Latest(ctx context.Context, userId uuid.UUID) (*entity.CheckIn, error) {
	all, _ := r.FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeCheckIns) DeleteByUser(ctx context.Context, userId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.checkIns {
		if c.UserId == userId {
			delete(r.s.checkIns, id)
		}
	}
	return nil
}

type fakeSystem struct{}

func (fakeSystem) DatabaseSizeMB(ctx context.Context) (float64, error) { return 12.5, nil }

type fakeNotifications struct{ s *store }

func (r *fakeNotifications) CreateNotification(ctx context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *fakeNotifications) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotifications) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	all, _, _ := r.GetNotificationsByUserID(ctx, userID, 0, 0)
	var n int64
	for _, x := range all {
		if !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotifications) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == id && r.s.notifications[i].UserID == userID {
			r.s.notifications[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *fakeNotifications) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].UserID == userID {
			r.s.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotifications) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.notifications[:0]
	for _, n := range r.s.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.s.notifications = kept
	return nil
}

func (r *fakeNotifications) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.types[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeNotifications) SeedNotificationTypes(ctx context.Context, types []model.NotificationType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range types {
		t := types[i]
		r.s.types[t.Code] = &t
	}
	return nil
}

func (r *fakeNotifications) GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []uuid.UUID
	for _, u := range r.s.users {
		if string(u.Role) == role && u.Status == entity.UserStatusActive {
			out = append(out, u.Id)
		}
	}
	return out, nil
}

// recordingPublisher captures domain events instead of publishing them.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BaseEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events.BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fakeMailer records what would have been sent.
type fakeMailer struct {
	mu      sync.Mutex
	otps    map[string]string
	welcome []string
	fail    error
}

func newFakeMailer() *fakeMailer { return &fakeMailer{otps: make(map[string]string)} }

func (m *fakeMailer) SendPasswordResetOTP(to, otp string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.otps[to] = otp
	return nil
}

func (m *fakeMailer) SendWelcome(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcome = append(m.welcome, to)
	return nil
}

func (m *fakeMailer) otpFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otps[email]
}
