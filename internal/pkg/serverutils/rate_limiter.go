package serverutils

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastReset  time.Time
	resetEvery time.Duration
}

// NewRateLimiter allows perMinute events per key with the given burst.
// Limiters are dropped every hour so idle keys don't accumulate.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      burst,
		limiters:   make(map[string]*rate.Limiter),
		lastReset:  time.Now(),
		resetEvery: time.Hour,
	}
}

func (r *RateLimiter) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if time.Since(r.lastReset) > r.resetEvery {
		r.limiters = make(map[string]*rate.Limiter)
		r.lastReset = time.Now()
	}

	limiter, exists := r.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters[key] = limiter
	}
	return limiter
}

func (r *RateLimiter) Allow(key string) bool {
	return r.get(key).Allow()
}

// Middleware limits per authenticated user, or per IP before login.
func (r *RateLimiter) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key, ok := ctx.Locals(LocalUserID).(string)
		if !ok || key == "" {
			key = ctx.IP()
		}
		if !r.Allow(key) {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please slow down")
		}
		return ctx.Next()
	}
}
