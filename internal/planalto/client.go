// Package planalto routes legal citations to the Planalto legislation portal
// and fetches their pages.
package planalto

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/legisbr/legis/internal/legal"
)

const (
	// SourceName labels documents fetched from the portal.
	SourceName = "Planalto"

	// DefaultRateLimit keeps requests to the portal at two per second.
	DefaultRateLimit = 2.0

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "legis/1.0 (+https://www.planalto.gov.br)"

	// MaxContentSize caps the size of a fetched page (32MB).
	MaxContentSize = 32 << 20
)

// Client is a rate-limited HTTP client for the Planalto portal.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL fetches from a different origin, such as a proxy or a test
// server. Canonical URLs still point at Origin.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit sets the maximum number of requests per second.
// A non-positive value disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTimeout sets the request timeout. Zero leaves the transport default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new Planalto client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    Origin,
		userAgent:  DefaultUserAgent,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch routes the citation, downloads its page and extracts title and
// summary. There is no retry: one failed request fails the citation.
func (c *Client) Fetch(ctx context.Context, citation legal.Citation) (*legal.Document, error) {
	path, err := Route(citation)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	page := Extract(body)
	return &legal.Document{
		Title:   page.Title,
		Summary: page.Summary,
		Source:  SourceName,
		URL:     CanonicalURL(path),
		Content: body,
	}, nil
}

// get issues a single GET for a portal path and returns the body as UTF-8.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("planalto response",
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{StatusCode: resp.StatusCode, URL: url}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	if len(raw) > MaxContentSize {
		return "", fmt.Errorf("content too large (exceeds %d bytes)", MaxContentSize)
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decoding body: %w", err)
	}

	return string(data), nil
}
