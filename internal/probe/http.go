package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// client wraps http.Client with the dashboard base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(cfg *Config) *client {
	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// getJSON performs a GET and decodes a 200 response into v.
func (c *client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnreachable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: %d %s", ErrStatus, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *client) priorities(ctx context.Context, view string, limit int) ([]Entry, error) {
	var out []Entry
	q := url.Values{"view": {view}, "limit": {fmt.Sprint(limit)}}
	err := c.getJSON(ctx, "/priorities?"+q.Encode(), &out)
	return out, err
}

func (c *client) rank(ctx context.Context, id string) (Entry, error) {
	var out Entry
	err := c.getJSON(ctx, "/rank/"+url.PathEscape(id), &out)
	return out, err
}

func (c *client) summary(ctx context.Context) (summaryDoc, error) {
	var out summaryDoc
	err := c.getJSON(ctx, "/summary", &out)
	return out, err
}

// health checks that /healthz answers.
func (c *client) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request /healthz: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: /healthz: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: /healthz: %d", ErrStatus, resp.StatusCode)
	}
	return nil
}
