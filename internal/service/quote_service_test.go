package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ai-journaling-be/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
)

func TestQuoteToday(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"q":"Keep going.","a":"Someone"}]`))
	}))
	defer srv.Close()

	svc := NewQuoteService(cache.NewMemoryCache(), QuoteOptions{URL: srv.URL, Fallback: "fallback"}).(*quoteService)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC) }

	assert.Equal(t, "“Keep going.” — Someone", svc.Today(context.Background()).Quote)
	assert.Equal(t, "“Keep going.” — Someone", svc.Today(context.Background()).Quote)
	assert.Equal(t, int32(1), calls.Load())

	// a new day fetches again
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 1, 0, 0, 0, time.UTC) }
	svc.Today(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestQuoteFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"empty list", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[]`)) }},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := cache.NewMemoryCache()
			svc := NewQuoteService(c, QuoteOptions{URL: srv.URL, Fallback: "Be kind to yourself."})
			assert.Equal(t, "Be kind to yourself.", svc.Today(context.Background()).Quote)

			_, cached := c.Get(context.Background(), "quote:"+time.Now().UTC().Format(dateLayout))
			assert.False(t, cached)
		})
	}
}
