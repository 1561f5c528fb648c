// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package grouping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/connecthub/models"
)

// DefaultTimeout bounds a single grouping call.
const DefaultTimeout = 30 * time.Second

// ErrMessageUnknown is reported when the service signals an error without
// any text.
const ErrMessageUnknown = "grouping service returned an error"

// maxResponseBytes caps how much of the grouping response is read.
const maxResponseBytes = 4 << 20

// Grouper clusters users according to a free-text query. Failures are
// reported in the response's Error field, not as a Go error.
type Grouper interface {
	RequestGroups(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse
}

// Func adapts an ordinary function to Grouper.
type Func func(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse

func (f Func) RequestGroups(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
	return f(ctx, users, query)
}

// HTTPClient calls an external grouping endpoint with a single POST.
// It never retries.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient uses DefaultTimeout when timeout is zero.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the configured endpoint.
func (c *HTTPClient) URL() string {
	return c.url
}

func (c *HTTPClient) RequestGroups(ctx context.Context, users []models.GroupingUser, query string) models.GroupingResponse {
	if users == nil {
		users = []models.GroupingUser{}
	}
	groups, err := c.post(ctx, models.GroupingRequest{Users: users, Query: query})
	if err != nil {
		slog.Warn("grouping request failed", "url", c.url, "users", len(users), "error", err)
		return models.GroupingResponse{Error: err.Error()}
	}
	return models.GroupingResponse{Groups: groups}
}

func (c *HTTPClient) post(ctx context.Context, payload models.GroupingRequest) ([]models.Group, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode grouping request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create grouping request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read grouping response: %w", err)
	}

	slog.Info("grouping response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), c.url)
	}

	return decodeGroups(data)
}

// decodeGroups accepts {"groups": [...]}; a body carrying "error" or lacking
// "groups" is a failure.
func decodeGroups(data []byte) ([]models.Group, error) {
	var raw struct {
		Error  *string         `json:"error"`
		Groups *[]models.Group `json:"groups"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid grouping response: %w", err)
	}
	if raw.Error != nil {
		msg := strings.TrimSpace(*raw.Error)
		if msg == "" {
			msg = ErrMessageUnknown
		}
		return nil, errors.New(msg)
	}
	if raw.Groups == nil {
		return nil, fmt.Errorf("invalid grouping response: missing groups")
	}
	groups := *raw.Groups
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}
