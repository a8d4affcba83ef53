// Package scrape extracts team, player and player-profile records from
// transfermarkt HTML pages.
//
// The package is split into a thin retrieval client (this file), stateless
// field extractors (extract.go), and the three entity scrapers that compose
// them (teams.go, player.go).
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// RetrievalError reports a non-2xx response for a page fetch. Callers decide
// whether it is fatal to the current task or skippable.
type RetrievalError struct {
	Status int
	URL    string
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("fetch %s returned %d", e.URL, e.Status)
}

// Client fetches HTML pages with a fixed inter-request delay to self-throttle
// against the target site.
type Client struct {
	http    *resty.Client
	baseURL string
	delay   time.Duration
	logger  *slog.Logger
}

// NewClient creates a page-fetching client. delay is applied after every
// successful fetch regardless of caller concurrency.
func NewClient(baseURL string, delay time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	http := resty.New()
	http.SetHeader("User-Agent", userAgent)
	http.SetTimeout(30 * time.Second)
	return &Client{
		http:    http,
		baseURL: baseURL,
		delay:   delay,
		logger:  logger,
	}
}

// BaseURL returns the base used to resolve relative page links.
func (c *Client) BaseURL() string { return c.baseURL }

// GetDocument fetches url and parses the body into a goquery document.
// Non-2xx responses yield a *RetrievalError.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	c.logger.Info("fetching page", "url", url)

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", url, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, &RetrievalError{Status: res.StatusCode(), URL: url}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", url, err)
	}

	c.sleep(ctx)
	return doc, nil
}

func (c *Client) sleep(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
	}
}
