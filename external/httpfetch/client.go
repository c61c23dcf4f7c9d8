package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/lineup-dataset/internal/platform/cache"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/platform/resilience"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryBackoff = time.Second
	defaultMaxBodyBytes = 8 << 20
)

var errTransient = crerr.New("upstream transient failure")

// StatusError is returned for a non-2xx response. Retryable statuses unwrap
// to the transient failure marker.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) Unwrap() error {
	if isRetryableStatus(e.StatusCode) {
		return errTransient
	}
	return nil
}

type Config struct {
	HTTPClient     *http.Client
	UserAgent      string
	Headers        map[string]string
	Timeout        time.Duration
	RequestDelay   time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxBodyBytes   int64
	Cache          *cache.DiskStore
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client is the polite fetcher shared by the source adapters: paced,
// retried, guarded by a circuit breaker and optionally cached on disk.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	headers      map[string]string
	limiter      *rate.Limiter
	maxRetries   int
	retryBackoff time.Duration
	maxBodyBytes int64
	cache        *cache.DiskStore
	breaker      *resilience.CircuitBreaker
	flight       resilience.Group[[]byte]
	logger       *logging.Logger
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	headers := make(map[string]string, len(cfg.Headers))
	for key, value := range cfg.Headers {
		headers[key] = value
	}

	return &Client{
		httpClient:   httpClient,
		userAgent:    strings.TrimSpace(cfg.UserAgent),
		headers:      headers,
		limiter:      rate.NewLimiter(limit, 1),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		maxBodyBytes: maxBody,
		cache:        cfg.Cache,
		breaker:      resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		logger:       logger,
	}
}

// FetchPage returns the body of an HTML page.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	raw, err := c.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// FetchJSON appends params to rawURL, fetches it and decodes into target.
// The raw payload is returned as well.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, params url.Values, target any) ([]byte, error) {
	fullURL, err := BuildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	raw, err := c.Get(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return raw, nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return raw, crerr.Wrapf(err, "decode payload from %s", fullURL)
	}
	return raw, nil
}

// Get returns the response body for fullURL. Cache hits skip pacing and
// never touch the network.
func (c *Client) Get(ctx context.Context, fullURL string) ([]byte, error) {
	load := func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, fullURL)
	}

	if c.cache != nil {
		return c.cache.GetOrLoad(ctx, fullURL, load)
	}
	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		return load(ctx)
	})
	return raw, err
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	var raw []byte
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr = c.executeRequest(ctx, fullURL)
		return reqErr
	}, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "url", fullURL, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: upstream is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.String("httpfetch.url", fullURL))
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.InfoContext(ctx, "fetching", "url", fullURL, "attempt", attempt+1)
		raw, err := c.do(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("upstream request failed")
	}
	c.logger.WarnContext(ctx, "request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %v", errTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if int64(len(raw)) > c.maxBodyBytes {
			return nil, crerr.Newf("response body from %s exceeds %d bytes", fullURL, c.maxBodyBytes)
		}
		return raw, nil
	}

	return nil, &StatusError{StatusCode: resp.StatusCode, URL: fullURL, Body: abbreviateBody(raw)}
}

// BuildURL appends params to rawURL, keeping any query it already has.
func BuildURL(rawURL string, params url.Values) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", rawURL)
	}
	if len(params) == 0 {
		return parsed.String(), nil
	}
	query := parsed.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// ValidateBaseURL checks an http(s) base URL and strips trailing slashes.
func ValidateBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
