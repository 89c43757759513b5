package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/juju/clock"
)

const (
	DefaultEndpoint  = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent = "tanamao-migration-tool/1.0.0"
	DefaultAttempts  = 3
)

// Client resolves places. It is safe for sequential use by one caller;
// pacing between distinct calls is the caller's job.
type Client struct {
	endpoint   string
	userAgent  string
	attempts   int
	httpClient *http.Client
	clock      clock.Clock
	cache      Cache
}

// Option configures a Client.
type Option func(*Client)

func WithEndpoint(endpoint string) Option { return func(c *Client) { c.endpoint = endpoint } }

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func WithClock(clk clock.Clock) Option { return func(c *Client) { c.clock = clk } }

func WithCache(cache Cache) Option { return func(c *Client) { c.cache = cache } }

func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		userAgent:  DefaultUserAgent,
		attempts:   DefaultAttempts,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		clock:      clock.WallClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	return c
}

// Resolve returns the first place matching query, or nil when nothing was
// found or every attempt failed.
func (c *Client) Resolve(ctx context.Context, query string) *Result {
	if r, ok := c.cache.Get(ctx, query); ok {
		return r
	}

	for attempt := 1; attempt <= c.attempts; attempt++ {
		r, err := c.fetch(ctx, query)
		if err == nil {
			if r != nil {
				c.cache.Set(ctx, query, r)
			}
			return r
		}
		if ctx.Err() != nil {
			return nil
		}

		var fetchErr *TransientFetchError
		if errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusTooManyRequests {
			logger.Debugf("geocode rate limited on attempt %d for %q", attempt, query)
			if !c.wait(ctx, backoff(attempt)) {
				return nil
			}
			continue
		}

		logger.Warnf("geocode attempt %d/%d failed: %v", attempt, c.attempts, err)
		if attempt == c.attempts {
			break
		}
		if !c.wait(ctx, backoff(attempt)) {
			return nil
		}
	}
	return nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func (c *Client) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.clock.After(d):
		return true
	}
}

func (c *Client) fetch(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("polygon_geojson", "1")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &TransientFetchError{Query: query, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientFetchError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransientFetchError{Query: query, StatusCode: resp.StatusCode}
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, &TransientFetchError{Query: query, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(places) == 0 {
		return nil, nil
	}
	return places[0].normalise(), nil
}
