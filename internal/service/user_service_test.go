package service

import (
	"context"
	"testing"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/entity"
	"ai-journaling-be/internal/pkg/logger"
	adminUser "ai-journaling-be/pkg/admin/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*store, IUserService, *entity.User) {
	t.Helper()
	st := newStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Id: uuid.New(), Email: "ann@example.com", FullName: "Ann", PasswordHash: string(hash),
		Role: entity.UserRoleUser, Status: entity.UserStatusActive, CreatedAt: time.Now()}
	st.users[u.Id] = u
	return st, NewUserService(st, adminUser.NewManager(logger.NewNopLogger())), u
}

func TestProfile(t *testing.T) {
	_, svc, u := newUserFixture(t)
	ctx := context.Background()

	profile, err := svc.GetProfile(ctx, u.Id)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", profile.Email)
	assert.Equal(t, "neutral", profile.Tone)

	profile, err = svc.UpdateProfile(ctx, u.Id, &dto.UpdateProfileRequest{FullName: "  Ann Lee "})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", profile.FullName)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	st, svc, u := newUserFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		current string
		next    string
		want    error
	}{
		{"wrong current", "nope", "better2", ErrIncorrectPassword},
		{"unchanged", "secret1", "secret1", ErrSamePassword},
		{"ok", "secret1", "better2", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, u.Id, &dto.ChangePasswordRequest{CurrentPassword: tt.current, NewPassword: tt.next, ConfirmPassword: tt.next})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(st.users[u.Id].PasswordHash), []byte("better2")))
}

func TestPreferences(t *testing.T) {
	_, svc, u := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.UpdatePreferences(ctx, u.Id, &dto.PreferencesRequest{Tone: "grumpy"})
	assert.ErrorIs(t, err, ErrInvalidTone)

	res, err := svc.UpdatePreferences(ctx, u.Id, &dto.PreferencesRequest{Tone: "Supportive"})
	require.NoError(t, err)
	assert.Equal(t, "supportive", res.Tone)

	got, err := svc.GetPreferences(ctx, u.Id)
	require.NoError(t, err)
	assert.Equal(t, "supportive", got.Tone)
}

func TestDeleteAccount(t *testing.T) {
	st, svc, u := newUserFixture(t)
	seedEntry(st, u.Id, "joy", time.Now())

	require.NoError(t, svc.DeleteAccount(context.Background(), u.Id))
	assert.Empty(t, st.users)
	assert.Empty(t, st.entries)
	assert.Equal(t, 1, st.commits)
}
