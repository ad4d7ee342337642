package memory

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// maxOTPAttempts bounds guesses per issued code.
const maxOTPAttempts = 5

type otpRecord struct {
	code     string
	attempts int
}

// OTPRepository keeps password-reset codes in process memory, keyed by
// lowercased email. Codes expire with the cache TTL.
type OTPRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewOTPRepository(ttl time.Duration) *OTPRepository {
	return &OTPRepository{
		cache: cache.New(ttl, ttl),
	}
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(email))
}

// Save replaces any earlier code for the email.
func (r *OTPRepository) Save(email, code string) {
	r.cache.Set(otpKey(email), &otpRecord{code: code}, cache.DefaultExpiration)
}

// Verify checks the code without consuming it. Too many wrong guesses
// invalidate the code.
func (r *OTPRepository) Verify(email, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := otpKey(email)
	x, found := r.cache.Get(key)
	if !found {
		return false
	}
	rec := x.(*otpRecord)
	if subtle.ConstantTimeCompare([]byte(rec.code), []byte(code)) == 1 {
		return true
	}
	rec.attempts++
	if rec.attempts >= maxOTPAttempts {
		r.cache.Delete(key)
	}
	return false
}

func (r *OTPRepository) Delete(email string) {
	r.cache.Delete(otpKey(email))
}
