package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultGridTimeout    = 250 * time.Second
)

// Client talks to the weather/storm backend. Every call is a single GET with
// no retry; failures are returned as *domain.APIError.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	requestTimeout time.Duration
	gridTimeout    time.Duration
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every call except the realtime grid.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithGridTimeout bounds the realtime grid call.
func WithGridTimeout(d time.Duration) Option {
	return func(c *Client) { c.gridTimeout = d }
}

// WithMetrics records request counts and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a backend client for baseURL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		requestTimeout: defaultRequestTimeout,
		gridTimeout:    defaultGridTimeout,
		metrics:        observability.NewMetricsForTesting(),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URLs returns the image URL builder for this backend.
func (c *Client) URLs() domain.ImageURLs {
	return domain.NewImageURLs(c.baseURL)
}

// request describes one backend call.
type request struct {
	endpoint string // metric label, e.g. "storms_by_date"
	op       string // error prefix, e.g. "storms by date"
	path     string
	timeout  time.Duration
	dated    bool // 404 means "no data for this date"
	// decode, when set, parses a 2xx body; a failure is counted as parse_error.
	decode func(body []byte) error
}

// get performs the request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, r request) ([]byte, error) {
	timeout := r.timeout
	if timeout == 0 {
		timeout = c.requestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	outcome := "error"
	defer func() {
		c.metrics.BackendRequests.WithLabelValues(r.endpoint, outcome).Inc()
		c.metrics.BackendDuration.WithLabelValues(r.endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+r.path, nil)
	if err != nil {
		return nil, &domain.APIError{Op: r.op, Kind: domain.ErrNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := transportKind(ctx)
		if kind == domain.ErrTimeout {
			outcome = "timeout"
		}
		c.logger.Warn("backend request failed", "op", r.op, "path", r.path, "error", err)
		return nil, &domain.APIError{Op: r.op, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := transportKind(ctx)
		if kind == domain.ErrTimeout {
			outcome = "timeout"
		}
		return nil, &domain.APIError{Op: r.op, Kind: kind, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := domain.ErrNetwork
		if r.dated && resp.StatusCode == http.StatusNotFound {
			kind = domain.ErrNotFound
			outcome = "not_found"
		}
		return nil, &domain.APIError{Op: r.op, Kind: kind, Status: resp.StatusCode, Detail: errorDetail(body)}
	}

	if r.decode != nil {
		if err := r.decode(body); err != nil {
			outcome = "parse_error"
			return nil, &domain.APIError{Op: r.op, Kind: domain.ErrParse, Err: err}
		}
	}

	outcome = "success"
	return body, nil
}

// getJSON performs the request and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, r request, v any) error {
	r.decode = func(body []byte) error { return json.Unmarshal(body, v) }
	_, err := c.get(ctx, r)
	return err
}

// transportKind separates our own deadline from other transport failures.
func transportKind(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	return domain.ErrNetwork
}

// errorDetail extracts {"detail": "..."} from an error body.
func errorDetail(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Detail
}
