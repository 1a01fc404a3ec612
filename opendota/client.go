// Package opendota fetches professional match rows and the team directory
// from the OpenDota API.
package opendota

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public OpenDota API root.
const DefaultBaseURL = "https://api.opendota.com/api"

// ErrUpstream is wrapped by every failure to get a usable response.
var ErrUpstream = errors.New("opendota: upstream fetch failed")

// APIError describes a failed request. StatusCode is 0 for transport errors.
type APIError struct {
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("opendota: %s: status %d: %s", e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("opendota: %s: %v", e.Path, e.Err)
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}

// Cache stores raw response bodies. Load reports a miss with ok false.
type Cache interface {
	Load(ctx context.Context, key string) (body []byte, ok bool, err error)
	Store(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Client talks to the OpenDota REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
	cache      Cache
	cacheTTL   time.Duration
}

// Option configures a Client.
type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCache serves repeated requests from cache for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient returns a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 45 * time.Second},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches path with query and returns the raw body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	key := cacheKey(path, query)
	if c.cache != nil {
		body, ok, err := c.cache.Load(ctx, key)
		if err != nil {
			c.log.Warn("opendota cache load failed", zap.String("path", path), zap.Error(err))
		} else if ok {
			c.log.Debug("opendota cache hit", zap.String("path", path))
			return body, nil
		}
	}

	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	u := c.baseURL + path
	if enc := query.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Path: path, Err: err}
	}
	c.log.Debug("opendota request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Path: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	if c.cache != nil {
		if err := c.cache.Store(ctx, key, body, c.cacheTTL); err != nil {
			c.log.Warn("opendota cache store failed", zap.String("path", path), zap.Error(err))
		}
	}
	return body, nil
}

// cacheKey excludes the api key so rotating it keeps cached entries valid.
func cacheKey(path string, query url.Values) string {
	sum := sha1.Sum([]byte(path + "?" + query.Encode()))
	return "opendota:" + hex.EncodeToString(sum[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
