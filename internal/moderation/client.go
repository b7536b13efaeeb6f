// Package moderation calls an external text moderation endpoint and turns its
// category/confidence pairs into a block/allow verdict.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bloghub-dev/bloghub/shared/logger"
)

// blockThreshold is the minimum confidence at which a harmful category blocks content.
const blockThreshold = 0.6

// requestTimeout bounds a single moderation call. No retries.
const requestTimeout = 10 * time.Second

// harmfulCategories is the fixed set of category names that can block content.
var harmfulCategories = map[string]bool{
	"Toxic":                 true,
	"Profanity":             true,
	"Sexual":                true,
	"Violent":               true,
	"Death, Harm & Tragedy": true,
}

// Checker is the verdict interface consumed by the services.
type Checker interface {
	Check(ctx context.Context, content, title string) bool
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

func New(endpoint, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   endpoint,
		token:      token,
	}
}

type document struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
}

type moderateRequest struct {
	Document document `json:"document"`
}

type moderationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type moderateResponse struct {
	ModerationCategories []moderationCategory `json:"moderationCategories"`
}

// Check reports whether the given content (and optional title, for posts)
// should be blocked. The moderation service is best-effort: on network
// failure, timeout or a non-200 response Check fails open and returns false,
// so moderation unavailability never blocks writes.
func (c *Client) Check(ctx context.Context, content, title string) bool {
	reqBody := moderateRequest{Document: document{Type: "PLAIN_TEXT", Content: content, Title: title}}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		logger.Log.Error("moderation request marshal failed", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		logger.Log.Error("moderation request build failed", "error", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Error("moderation call failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("moderation call returned non-200", "status", resp.StatusCode)
		return false
	}

	var result moderateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Log.Error("moderation response decode failed", "error", err)
		return false
	}

	return shouldBlock(result.ModerationCategories)
}

func shouldBlock(categories []moderationCategory) bool {
	for _, category := range categories {
		if harmfulCategories[category.Name] && category.Confidence > blockThreshold {
			return true
		}
	}
	return false
}
