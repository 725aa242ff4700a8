/*
Package backend is the HTTP client for the remote RSS aggregation backend.

The frontend never parses feeds itself: articles, the source registry, source
management, refreshes and keyword search all go through the endpoints below.

	GET    /feeds                 list aggregated articles
	GET    /list_feeds            list registered sources
	POST   /add_feed?name=&url=   register a source
	DELETE /remove_feed?name=     remove a source
	POST   /update_feeds          trigger a refresh
	GET    /search?query=         keyword search

Payloads are adapted to the canonical filter.Article and filter.Source types here, so
nothing downstream deals with the naming differences between backend revisions.
Each call is a single request: there is no retry and no de-duplication.
*/
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxBodySize bounds how much of a backend response is read
const maxBodySize = 32 << 20

// ErrMalformedPayload is returned when a list endpoint does not answer with a JSON array
var ErrMalformedPayload = errors.New("backend response is not a JSON array")

// StatusError is returned for non-2xx backend responses
type StatusError struct {
	Action     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s failed with status %d", e.Action, e.StatusCode)
	}
	return fmt.Sprintf("backend %s failed with status %d: %s", e.Action, e.StatusCode, e.Body)
}

// Client talks to the RSS backend
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a backend client for baseURL. The timeout bounds every call.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing host", baseURL)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListArticles fetches the aggregated articles
func (c *Client) ListArticles(ctx context.Context) ([]filter.Article, error) {
	return c.articles(ctx, "list_articles", "/feeds", nil)
}

// Search runs a keyword search on the backend
func (c *Client) Search(ctx context.Context, query string) ([]filter.Article, error) {
	return c.articles(ctx, "search", "/search", url.Values{"query": {query}})
}

// ListSources fetches the source registry
func (c *Client) ListSources(ctx context.Context) ([]filter.Source, error) {
	const action = "list_sources"
	start := time.Now()

	body, err := c.do(ctx, action, http.MethodGet, "/list_feeds", nil)
	if err != nil {
		c.record(action, start, -1, err)
		return nil, err
	}
	sources, err := decodeSources(body)
	c.record(action, start, len(sources), err)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", action, err)
	}
	return sources, nil
}

// AddSource registers a new feed source
func (c *Client) AddSource(ctx context.Context, name, feedURL string) error {
	return c.command(ctx, "add_source", http.MethodPost, "/add_feed", url.Values{"name": {name}, "url": {feedURL}})
}

// RemoveSource removes a feed source by name
func (c *Client) RemoveSource(ctx context.Context, name string) error {
	return c.command(ctx, "remove_source", http.MethodDelete, "/remove_feed", url.Values{"name": {name}})
}

// Refresh asks the backend to re-fetch all feeds
func (c *Client) Refresh(ctx context.Context) error {
	return c.command(ctx, "refresh", http.MethodPost, "/update_feeds", nil)
}

// Ping checks that the backend answers its source listing
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/list_feeds", nil)
	return err
}

func (c *Client) articles(ctx context.Context, action, path string, query url.Values) ([]filter.Article, error) {
	start := time.Now()

	body, err := c.do(ctx, action, http.MethodGet, path, query)
	if err != nil {
		c.record(action, start, -1, err)
		return nil, err
	}
	articles, err := decodeArticles(body)
	c.record(action, start, len(articles), err)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", action, err)
	}
	return articles, nil
}

func (c *Client) command(ctx context.Context, action, method, path string, query url.Values) error {
	start := time.Now()
	_, err := c.do(ctx, action, method, path, query)
	c.record(action, start, -1, err)
	return err
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, action, method, path string, query url.Values) ([]byte, error) {
	ctx, span := monitoring.CreateSpan(ctx, "backend."+action)
	defer span.End()

	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	monitoring.SetSpanAttributes(span, map[string]interface{}{
		"backend.action": action,
		"http.method":    method,
		"http.url":       endpoint.String(),
	})

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		monitoring.SetSpanError(span, err)
		return nil, fmt.Errorf("backend %s: failed to build request: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		monitoring.SetSpanError(span, err)
		return nil, fmt.Errorf("backend %s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		monitoring.SetSpanError(span, err)
		return nil, fmt.Errorf("backend %s: failed to read response: %w", action, err)
	}

	monitoring.SetSpanAttributes(span, map[string]interface{}{"http.status_code": resp.StatusCode})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Action: action, StatusCode: resp.StatusCode, Body: snippet(body)}
		monitoring.SetSpanError(span, statusErr)
		return nil, statusErr
	}

	return body, nil
}

// record logs the outcome of a call and feeds the metrics
func (c *Client) record(action string, start time.Time, items int, err error) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
		items = -1
	}
	monitoring.RecordBackendCall(action, status, duration.Seconds(), items)

	fields := logrus.Fields{
		"action":      action,
		"backend":     c.baseURL.Host,
		"duration_ms": duration.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		c.logger.WithFields(fields).Error("Backend call failed")
		return
	}
	if items >= 0 {
		fields["items_count"] = items
	}
	c.logger.WithFields(fields).Debug("Backend call completed")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		return s[:256]
	}
	return s
}
