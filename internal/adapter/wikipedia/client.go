// Package wikipedia fetches the source page over HTTP.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/wikiclimate/city-temp-etl/internal/config"
)

// Client fetches the temperature page. It implements pipeline.PageFetcher.
type Client struct {
	sourceURL  string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a page fetcher for the configured source URL.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		sourceURL: cfg.SourceURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// FetchPage performs one GET against the source URL and returns the body.
// Any non-2xx status is an error; there is no retry, the run is best-effort.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("fetch page: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}

	c.logger.Debug("page fetched", "url", c.sourceURL, "bytes", len(body))
	return string(body), nil
}
