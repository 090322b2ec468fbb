package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Chunk is one ranked passage returned by the knowledge base.
type Chunk struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Searcher retrieves passages relevant to a user message.
type Searcher interface {
	Search(ctx context.Context, agentID, query string, limit int) ([]Chunk, error)
}

// Config describes how to reach the knowledge-base service.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient queries an external knowledge-base service over JSON.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient validates the configuration and returns a ready-to-use client.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("knowledge: base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

var _ Searcher = (*HTTPClient)(nil)

type searchRequest struct {
	AgentID string `json:"agent_id"`
	Query   string `json:"query"`
	Limit   int    `json:"limit"`
}

type searchResponse struct {
	Chunks []Chunk `json:"chunks"`
}

// Search posts the query and returns ranked chunks, best first.
func (c *HTTPClient) Search(ctx context.Context, agentID, query string, limit int) ([]Chunk, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, errors.New("knowledge: agent id required")
	}
	if limit <= 0 {
		limit = 5
	}

	data, err := json.Marshal(searchRequest{AgentID: agentID, Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("knowledge: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("knowledge: request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("knowledge: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read response failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("knowledge: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("knowledge: decode response failed: %w", err)
	}
	return out.Chunks, nil
}

// NoopSearcher returns nothing. Used when no knowledge base is configured.
type NoopSearcher struct{}

// Search always returns an empty result.
func (NoopSearcher) Search(context.Context, string, string, int) ([]Chunk, error) {
	return nil, nil
}
