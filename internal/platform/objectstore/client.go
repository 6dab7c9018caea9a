package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to a Supabase-style storage REST API for one bucket.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	bucket     string
	limiter    *rate.Limiter
	maxRetries int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func NewClient(baseURL, apiKey, bucket string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Object is one entry returned by List.
type Object struct {
	Name string `json:"name"`
}

func (c *Client) objectURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, escapePath(path))
}

// Upload stores body at path, replacing any existing object.
func (c *Client) Upload(ctx context.Context, path, contentType string, body []byte) error {
	return c.do(ctx, http.MethodPost, c.objectURL(path), body, func(req *http.Request) {
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("x-upsert", "true")
	}, nil)
}

// List returns the objects directly under prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	payload, err := json.Marshal(map[string]any{
		"prefix": prefix,
		"limit":  100,
		"offset": 0,
	})
	if err != nil {
		return nil, err
	}

	var out []Object
	u := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, c.bucket)
	if err := c.do(ctx, http.MethodPost, u, payload, jsonBody, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes the objects at paths. Missing objects are not an error.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string]any{"prefixes": paths})
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, c.bucket)
	return c.do(ctx, http.MethodDelete, u, payload, jsonBody, nil)
}

func jsonBody(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, prepare func(*http.Request), target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 250ms, 500ms, 1s...
			backoff := time.Duration(1<<uint(i-1)) * 250 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
		if prepare != nil {
			prepare(req)
		}

		retry, err := c.send(req, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) send(req *http.Request, target any) (bool, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("storage %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	return false, json.NewDecoder(resp.Body).Decode(target)
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
