package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/askitmo/askitmo/internal/htmlconv"
	"github.com/askitmo/askitmo/internal/logger"
)

const (
	scrapeDefaultTimeout = 10 * time.Second
	scrapeMaxBodyBytes   = 1_000_000 // cap page downloads at 1MB
	scrapeUserAgent      = "Mozilla/5.0"
)

// Page is the scraped content of a single URL.
type Page struct {
	Title string
	Text  string
}

// Scraper downloads result pages and reduces them to bounded plain text.
type Scraper struct {
	client     *http.Client
	timeout    time.Duration
	maxTextLen int
}

// NewScraper creates a scraper with a per-page timeout and a text length cap.
func NewScraper(timeout time.Duration, maxTextLen int) *Scraper {
	if timeout <= 0 {
		timeout = scrapeDefaultTimeout
	}
	if maxTextLen <= 0 {
		maxTextLen = 1000
	}
	return &Scraper{
		client:     &http.Client{},
		timeout:    timeout,
		maxTextLen: maxTextLen,
	}
}

// ScrapeAll fetches every URL concurrently and returns one Page per input, in
// input order. A page that fails to download or parse comes back empty.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []Page {
	pages := make([]Page, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			pages[i] = s.scrape(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return pages
}

func (s *Scraper) scrape(ctx context.Context, pageURL string) Page {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		logger.Warn("Failed to build request for %s: %v", pageURL, err)
		return Page{}
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("Failed to fetch %s: %v", pageURL, err)
		return Page{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Fetching %s returned status %d", pageURL, resp.StatusCode)
		return Page{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, scrapeMaxBodyBytes))
	if err != nil {
		logger.Warn("Failed to read %s: %v", pageURL, err)
		return Page{}
	}

	title, text := htmlconv.ExtractPage(string(body))
	return Page{Title: title, Text: s.truncateText(text)}
}

func (s *Scraper) truncateText(text string) string {
	runes := []rune(text)
	if len(runes) <= s.maxTextLen {
		return text
	}
	return fmt.Sprintf("%s...", string(runes[:s.maxTextLen]))
}
