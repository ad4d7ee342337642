package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/pkg/cache"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/pkg/admin/dashboard"
	adminUser "ai-journaling-be/pkg/admin/user"
	"ai-journaling-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	store *store
	cache *cache.MemoryCache
	bus   *recordingPublisher
	svc   IAdminService
}

func newAdminFixture() *adminFixture {
	log := logger.NewNopLogger()
	f := &adminFixture{store: newStore(), cache: cache.NewMemoryCache(), bus: &recordingPublisher{}}
	f.svc = NewAdminService(f.store, dashboard.NewAggregator(log, "unclassified", time.UTC), adminUser.NewManager(log),
		f.cache, NewEventPublisher(f.bus, log), log)
	return f
}

func (f *adminFixture) addUser(email string, role entity.UserRole) *entity.User {
	u := &entity.User{Id: uuid.New(), Email: email, Role: role, Status: entity.UserStatusActive, CreatedAt: time.Now()}
	f.store.users[u.Id] = u
	return u
}

func TestDashboardStatsCached(t *testing.T) {
	f := newAdminFixture()
	ann := f.addUser("ann@example.com", entity.UserRoleUser)
	f.addUser("bob@example.com", entity.UserRoleUser)
	f.addUser("root@example.com", entity.UserRoleAdmin)
	seedEntry(f.store, ann.Id, "joy", time.Now().Add(-time.Hour))
	seedEntry(f.store, ann.Id, "unclassified", time.Now().Add(-30*24*time.Hour))
	ctx := context.Background()

	stats, err := f.svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.InactiveUsers)
	assert.Equal(t, int64(2), stats.TotalEntries)
	assert.Equal(t, int64(1), stats.EntriesThisWeek)
	assert.Equal(t, int64(1), stats.UnclassifiedEntries)
	assert.InDelta(t, 1.0, stats.AvgEntriesPerUser, 1e-9)
	assert.Equal(t, 7, stats.ActiveWindowDays)

	// served from cache until invalidated
	seedEntry(f.store, ann.Id, "joy", time.Now())
	again, err := f.svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.TotalEntries)

	f.cache.Delete(ctx, StatsCacheKey)
	fresh, err := f.svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.TotalEntries)
}

func TestDashboardAverageConfidenceSkipsUnclassified(t *testing.T) {
	tests := []struct {
		name  string
		seed  map[string]float64
		label string
		want  float64
	}{
		{name: "mixed", seed: map[string]float64{"joy": 0.9, "sadness": 0.7, "unclassified": 0.2}, label: "unclassified", want: 0.8},
		{name: "only unclassified", seed: map[string]float64{"unclassified": 0.3}, label: "unclassified", want: 0},
		{name: "custom label", seed: map[string]float64{"joy": 0.6, "unknown": 0.1}, label: "unknown", want: 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.NewNopLogger()
			st := newStore()
			svc := NewAdminService(st, dashboard.NewAggregator(log, tt.label, time.UTC), adminUser.NewManager(log),
				cache.NewMemoryCache(), NewEventPublisher(&recordingPublisher{}, log), log)
			user := uuid.New()
			for emotion, confidence := range tt.seed {
				seedEntry(st, user, emotion, time.Now()).Confidence = confidence
			}

			stats, err := svc.GetDashboardStats(context.Background())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, stats.AvgConfidence, 1e-9)
			assert.Equal(t, int64(len(tt.seed)), stats.TotalEntries)
		})
	}
}

func TestUpdateUserStatus(t *testing.T) {
	f := newAdminFixture()
	admin := f.addUser("root@example.com", entity.UserRoleAdmin)
	ann := f.addUser("ann@example.com", entity.UserRoleUser)
	ctx := context.Background()

	tests := []struct {
		name   string
		target uuid.UUID
		status string
		want   error
	}{
		{"self", admin.Id, "blocked", ErrModifySelf},
		{"bad status", ann.Id, "frozen", ErrInvalidStatus},
		{"unknown user", uuid.New(), "blocked", ErrUserNotFound},
		{"block", ann.Id, "blocked", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.UpdateUserStatus(ctx, admin.Id, tt.target, &dto.UpdateUserStatusRequest{Status: tt.status})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, entity.UserStatusBlocked, f.store.users[ann.Id].Status)
}

func TestDeleteUserPurgesEverything(t *testing.T) {
	f := newAdminFixture()
	admin := f.addUser("root@example.com", entity.UserRoleAdmin)
	ann := f.addUser("ann@example.com", entity.UserRoleUser)
	bob := f.addUser("bob@example.com", entity.UserRoleUser)
	seedEntry(f.store, ann.Id, "joy", time.Now())
	keep := seedEntry(f.store, bob.Id, "joy", time.Now())
	f.store.checkIns[uuid.New()] = &entity.CheckIn{UserId: ann.Id}
	f.store.prefs[ann.Id] = &entity.UserPreference{UserId: ann.Id}
	f.store.notifications = append(f.store.notifications, model.Notification{ID: uuid.New(), UserID: ann.Id})
	ctx := context.Background()
	f.cache.Set(ctx, StatsCacheKey, []byte("{}"), time.Minute)

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, admin.Id, admin.Id), ErrModifySelf)
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, admin.Id, uuid.New()), ErrUserNotFound)

	require.NoError(t, f.svc.DeleteUser(ctx, admin.Id, ann.Id))
	assert.NotContains(t, f.store.users, ann.Id)
	assert.NotContains(t, f.store.prefs, ann.Id)
	assert.Empty(t, f.store.checkIns)
	assert.Empty(t, f.store.notifications)
	assert.Len(t, f.store.entries, 1)
	assert.Contains(t, f.store.entries, keep.Id)

	_, cached := f.cache.Get(ctx, StatsCacheKey)
	assert.False(t, cached)
	assert.Equal(t, []string{events.UserDeleted}, f.bus.types())
	assert.Equal(t, "ann@example.com", f.bus.events[0].Data["email"])
}

func TestGetAllUsersAndExport(t *testing.T) {
	f := newAdminFixture()
	ann := f.addUser("ann@example.com", entity.UserRoleUser)
	seedEntry(f.store, ann.Id, "joy", time.Now())
	ctx := context.Background()

	users, err := f.svc.GetAllUsers(ctx, &dto.AdminUserListRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].EntryCount)
	assert.NotNil(t, users[0].LastEntryAt)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportUsersCSV(ctx, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "ann@example.com")
}

func TestBroadcastAndEnsureAdmin(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Broadcast(ctx, &dto.BroadcastRequest{Title: "Hi", Message: "All good"}))
	assert.Equal(t, []string{events.SystemBroadcast}, f.bus.types())

	created, err := f.svc.EnsureAdmin(ctx, "Root@Example.com", "Admin123")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = f.svc.EnsureAdmin(ctx, "root@example.com", "Admin456")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, f.store.users, 1)
}
