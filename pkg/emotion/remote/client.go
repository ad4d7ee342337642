// Package remote classifies text through an HTTP inference endpoint that
// speaks the HuggingFace text-classification format.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"ai-journaling-be/pkg/emotion"
	"ai-journaling-be/pkg/emotion/tokenizer"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultTimeout = 30 * time.Second

	// Probabilities below this are clamped before taking the log.
	minProbability = 1e-12
)

type Config struct {
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
	MaxBatch int
}

// Client implements emotion.Model over HTTP. Encodings are decoded back to
// text, so masked positions reach the server as literal [MASK] tokens.
type Client struct {
	endpoint string
	apiKey   string
	labels   *emotion.LabelSet
	maxBatch int
	http     *http.Client
}

type classifyRequest struct {
	Inputs     []string        `json:"inputs"`
	Parameters classifyParams  `json:"parameters"`
	Options    map[string]bool `json:"options,omitempty"`
}

type classifyParams struct {
	TopK int `json:"top_k"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(cfg Config, labels *emotion.LabelSet) (*Client, error) {
	if cfg.Model == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: model or base url is required")
	}
	if labels == nil {
		return nil, fmt.Errorf("remote: label set is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint := base
	if cfg.Model != "" {
		endpoint = base + "/" + cfg.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 16
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		labels:   labels,
		maxBatch: cfg.MaxBatch,
		http:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Logits returns log-probabilities, so a softmax over them gives back the
// server's distribution.
func (c *Client) Logits(ctx context.Context, batch []tokenizer.Encoding) ([][]float32, error) {
	out := make([][]float32, 0, len(batch))
	for start := 0; start < len(batch); start += c.maxBatch {
		end := min(start+c.maxBatch, len(batch))
		texts := make([]string, end-start)
		for i, enc := range batch[start:end] {
			texts[i] = tokenizer.Decode(enc)
		}
		rows, err := c.classify(ctx, texts)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (c *Client) classify(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(classifyRequest{
		Inputs:     texts,
		Parameters: classifyParams{TopK: c.labels.Len()},
		Options:    map[string]bool{"wait_for_model": true},
	})
	if err != nil {
		return nil, fmt.Errorf("remote: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("remote: inference error (status %d): %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("remote: inference error (status %d): %s", resp.StatusCode, string(raw))
	}

	rows, err := decodeScores(raw, len(texts))
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(rows))
	for i, row := range rows {
		out[i], err = c.toLogits(row)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeScores accepts both [[{label,score}...]...] and, for a single
// input, the flat [{label,score}...] some servers return.
func decodeScores(raw []byte, n int) ([][]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) != n {
			return nil, fmt.Errorf("remote: got %d results for %d inputs", len(nested), n)
		}
		return nested, nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("remote: failed to decode response: %w", err)
	}
	if n != 1 {
		return nil, fmt.Errorf("remote: got a single result for %d inputs", n)
	}
	return [][]labelScore{flat}, nil
}

func (c *Client) toLogits(row []labelScore) ([]float32, error) {
	logits := make([]float32, c.labels.Len())
	for i := range logits {
		logits[i] = float32(math.Log(minProbability))
	}
	for _, s := range row {
		idx, ok := c.labels.Index(s.Label)
		if !ok {
			return nil, fmt.Errorf("remote: server returned unknown label %q", s.Label)
		}
		logits[idx] = float32(math.Log(math.Max(s.Score, minProbability)))
	}
	return logits, nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
