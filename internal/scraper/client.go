// Package scraper fetches the public league pages and refreshes the cache.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/mleague-analyst/internal/config"
	"go.uber.org/zap"
)

// Page paths relative to the site base URL.
const (
	PathTop    = "/"
	PathPoints = "/points/"
	PathGames  = "/games/"
	PathStats  = "/stats/"
)

const maxPageBytes = 10 << 20

// Client downloads pages from the league site.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	logger    *zap.Logger
}

// NewClient creates a page client.
func NewClient(cfg config.ScraperConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger.Named("scraper_client"),
	}
}

// Get fetches one page and returns its body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	c.logger.Info("page fetched",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)))
	return body, nil
}
