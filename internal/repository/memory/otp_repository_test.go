package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPRepository(t *testing.T) {
	r := NewOTPRepository(time.Minute)
	r.Save("Someone@Example.com", "123456")

	assert.False(t, r.Verify("someone@example.com", "000000"))
	assert.True(t, r.Verify(" someone@example.com ", "123456"), "email is normalised")

	r.Delete("someone@example.com")
	assert.False(t, r.Verify("someone@example.com", "123456"))
}

func TestOTPRepositoryLocksAfterAttempts(t *testing.T) {
	r := NewOTPRepository(time.Minute)
	r.Save("a@b.co", "123456")
	for i := 0; i < maxOTPAttempts; i++ {
		assert.False(t, r.Verify("a@b.co", "999999"))
	}
	assert.False(t, r.Verify("a@b.co", "123456"), "code is burned after too many guesses")
}

func TestOTPRepositoryExpires(t *testing.T) {
	r := NewOTPRepository(20 * time.Millisecond)
	r.Save("a@b.co", "123456")
	time.Sleep(40 * time.Millisecond)
	assert.False(t, r.Verify("a@b.co", "123456"))
}
