package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/cache"
)

const defaultQuoteURL = "https://zenquotes.io/api/today"

type IQuoteService interface {
	Today(ctx context.Context) *dto.QuoteResponse
}

type QuoteOptions struct {
	URL      string
	Fallback string
	Location *time.Location
	Client   *http.Client
}

type quoteService struct {
	cache cache.Cache
	opts  QuoteOptions
	now   func() time.Time
}

type zenQuote struct {
	Quote  string `json:"q"`
	Author string `json:"a"`
}

func NewQuoteService(c cache.Cache, opts QuoteOptions) IQuoteService {
	if opts.URL == "" {
		opts.URL = defaultQuoteURL
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Second}
	}
	return &quoteService{cache: c, opts: opts, now: time.Now}
}

// Today returns the quote of the day, fetched once per local day. Upstream
// failures return the fallback without caching it.
func (s *quoteService) Today(ctx context.Context) *dto.QuoteResponse {
	now := s.now().In(s.opts.Location)
	key := "quote:" + now.Format(dateLayout)

	if cached, ok := s.cache.Get(ctx, key); ok {
		return &dto.QuoteResponse{Quote: string(cached)}
	}

	quote, err := s.fetch(ctx)
	if err != nil {
		log.Printf("[WARN] Quote fetch failed, using fallback: %v", err)
		return &dto.QuoteResponse{Quote: s.opts.Fallback}
	}

	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, s.opts.Location)
	s.cache.Set(ctx, key, []byte(quote), midnight.Sub(now))
	return &dto.QuoteResponse{Quote: quote}
}

func (s *quoteService) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quote api returned %d", resp.StatusCode)
	}

	var quotes []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return "", fmt.Errorf("decode quote: %w", err)
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0].Quote) == "" {
		return "", fmt.Errorf("quote api returned no quote")
	}
	return fmt.Sprintf("“%s” — %s", quotes[0].Quote, quotes[0].Author), nil
}
