package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config controls request timeouts and how many attempts a request gets.
// MaxAttempts of 1 disables retries entirely.
type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	UserAgent   string
}

// DefaultConfig returns a single-attempt config with a 10s timeout.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxAttempts: 1,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		UserAgent:   "moviedeck",
	}
}

// Client wraps http.Client with per-request timeouts and optional retries.
type Client struct {
	http   *http.Client
	config Config
	logger *slog.Logger
}

// New creates a new Client.
func New(cfg Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a Client around an existing http.Client.
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}
}

// Do executes req. When MaxAttempts > 1, GET/HEAD requests are repeated on
// 429 and 5xx gateway errors, honoring Retry-After.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	var lastErr error
	var lastResp *http.Response

	for attempt := range c.config.MaxAttempts {
		if attempt > 0 {
			if err := c.wait(req.Context(), attempt, lastResp, req.URL.Path); err != nil {
				return nil, err
			}
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			err = redact(err)
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			c.logger.Debug("request failed",
				slog.String("path", req.URL.Path),
				slog.String("error", err.Error()),
			)
			if !canRepeat(req.Method) {
				return nil, err
			}
			lastErr = err
			lastResp = nil
			continue
		}

		c.logger.Debug("request done",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)

		if attempt == c.config.MaxAttempts-1 || !retryable(resp.StatusCode, req.Method) {
			return resp, nil
		}

		lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Path)
		lastResp = resp
		_ = resp.Body.Close()
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxAttempts, lastErr)
}

// redact strips the query string from the URL a transport error carries.
// Query parameters may hold credentials.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "[redacted]", Err: uerr.Err}
	}
	u.RawQuery = ""
	u.User = nil
	return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
}

func (c *Client) wait(ctx context.Context, attempt int, lastResp *http.Response, path string) error {
	delay := c.backoff(attempt)
	if d := retryAfter(lastResp); d > delay {
		delay = d
	}
	if delay > c.config.MaxDelay {
		delay = c.config.MaxDelay
	}

	c.logger.Debug("retrying request",
		slog.Int("attempt", attempt+1),
		slog.Duration("delay", delay),
		slog.String("path", path),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// canRepeat reports whether a request with this method carries no body
// that would need replaying.
func canRepeat(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func retryable(statusCode int, method string) bool {
	if !canRepeat(method) {
		return false
	}
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.config.BaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.config.MaxDelay) {
		delay = float64(c.config.MaxDelay)
	}
	jitter := delay * 0.2 * rand.Float64() // #nosec G404
	return time.Duration(delay + jitter)
}
