package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"abc1", ErrPasswordTooShort},
		{"abcdefg", ErrPasswordNoNumber},
		{"1234567", ErrPasswordNoLetter},
		{"abc123", nil},
		{"pässw0rd", nil},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPasswordStrength(tt.password))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("someone@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@mail.example.org"))
	assert.False(t, IsValidEmail("someone@example"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("someone example.com"))
}

type signup struct {
	Email           string `json:"email" validate:"required,strict_email"`
	Password        string `json:"password" validate:"required,password_strength"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Tone            string `json:"tone" validate:"omitempty,oneof=neutral supportive"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name string
		req  signup
		want string
	}{
		{"valid", signup{"a@b.co", "abc123", "abc123", ""}, ""},
		{"missing email", signup{"", "abc123", "abc123", ""}, "email is required"},
		{"bad email", signup{"nope", "abc123", "abc123", ""}, "Invalid email format"},
		{"weak password", signup{"a@b.co", "abcdef", "abcdef", ""}, "Password must contain at least one number"},
		{"mismatch", signup{"a@b.co", "abc123", "abc124", ""}, "Passwords do not match"},
		{"tone", signup{"a@b.co", "abc123", "abc123", "angry"}, "tone must be one of: neutral, supportive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.want, ve.Message)
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := IssueToken("s3cret", id, RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ParseToken("other", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken("s3cret", id, "user", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newTestApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", JwtMiddleware(secret), func(ctx *fiber.Ctx) error {
		id, err := CurrentUserID(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", id.String()))
	})
	app.Get("/admin", JwtMiddleware(secret), AdminOnly, func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", true))
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("database exploded")
	})
	return app
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestJwtMiddleware(t *testing.T) {
	app := newTestApp("s3cret")
	id := uuid.New()
	userTok, err := IssueToken("s3cret", id, "user", time.Hour)
	require.NoError(t, err)
	adminTok, err := IssueToken("s3cret", id, RoleAdmin, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/me", "", fiber.StatusUnauthorized},
		{"garbage", "/me", "abc", fiber.StatusUnauthorized},
		{"user", "/me", userTok, fiber.StatusOK},
		{"user on admin route", "/admin", userTok, fiber.StatusForbidden},
		{"admin", "/admin", adminTok, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, tt.status == fiber.StatusOK, body["success"])
		})
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := newTestApp("s3cret")
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are independent")
}
