package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/omarshaarawi/ttfl/internal/config"
	"github.com/omarshaarawi/ttfl/internal/retry"
)

const baseURL = "https://stats.nba.com/stats"

// stats.nba.com rejects requests that do not look like they come from the
// website.
var defaultHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.Code)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	retry      retry.Policy
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.retry = p }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.NBAStats, opts ...Option) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid NBA_PROXY: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	limit := rate.Inf
	if cfg.RateLimitSleep > 0 {
		limit = rate.Every(cfg.RateLimitSleep)
	}

	policy := retry.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "nba-stats",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
		retry: policy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get calls a stats endpoint and decodes the JSON body into result. Each
// attempt waits for the rate limiter; timeouts and connection failures are
// retried under the client's policy.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	return c.retry.Do(ctx, endpoint, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.do(ctx, endpoint, params, result)
		})
		return err
	})
}

func (c *Client) do(ctx context.Context, endpoint string, params map[string]string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()

	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
