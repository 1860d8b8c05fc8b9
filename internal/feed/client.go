// Package feed talks to the remote content service (articles and photos)
// and keeps the knowledge store's default documents congruent with it.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client is an HTTP client for the lumen content feeds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestsPerSecond caps outgoing request rate. Paging through a large
// article feed issues many requests back to back; the cap keeps sync polite
// toward the content service.
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a feed client for the service at baseURL.
// A nil logger defaults to slog.Default().
func NewClient(baseURL string, logger *slog.Logger, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("feed base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchArticles returns one page of the article feed. Pages are 1-based.
// A page with fewer than pageSize items is the last one.
func (c *Client) FetchArticles(ctx context.Context, page, pageSize int) ([]Article, error) {
	endpoint := fmt.Sprintf("%s/api/v1/articles?%s", c.baseURL, url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}.Encode())

	var resp articlesResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FetchPhotos returns the full photo list; the photo feed is not paginated.
func (c *Client) FetchPhotos(ctx context.Context) ([]Photo, error) {
	endpoint := c.baseURL + "/api/v1/photos"

	var resp photosResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{URL: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: endpoint, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{URL: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
