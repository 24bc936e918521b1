// Package places is a small client for the places text-search, photo-media and
// place-details endpoints. Text searches and detail lookups share one rate
// limiter so that a fan-out of queries is paced instead of bursting the API.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production endpoint root.
const DefaultBaseURL = "https://places.googleapis.com/v1"

// DefaultInterval is the minimum spacing between two upstream calls.
const DefaultInterval = 100 * time.Millisecond

// Observer receives one callback per upstream call. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveUpstream(endpoint, outcome string)
}

// Client calls the places API. It is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. Tests point this at an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithInterval sets the pacing between calls. Zero or negative disables pacing.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithObserver records every call outcome.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New builds a Client authenticating with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(DefaultInterval), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is returned for any non-2xx upstream response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("places api: status %d: %s", e.Status, e.Message)
}

// do sends and reads one request, waiting on the limiter first when paced is
// set. A non-2xx status is turned into an *APIError carrying the upstream
// error.message when present.
func (c *Client) do(ctx context.Context, paced bool, endpoint, method, url, fieldMask string, body any) ([]byte, error) {
	if paced {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, "error")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		c.observe(endpoint, "error")
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(endpoint, "error")
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	c.observe(endpoint, "ok")
	return data, nil
}

func (c *Client) observe(endpoint, outcome string) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, outcome)
	}
}
