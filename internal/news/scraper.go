package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/store"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper extracts headlines from HTML pages using a CSS selector per page.
type Scraper struct {
	pages     []store.ScrapePage
	timeout   time.Duration
	rateLimit time.Duration
}

var _ interfaces.HeadlineSource = (*Scraper)(nil)

// NewScraper pauses rateLimit between consecutive pages.
func NewScraper(pages []store.ScrapePage, timeout, rateLimit time.Duration) *Scraper {
	return &Scraper{
		pages:     pages,
		timeout:   timeout,
		rateLimit: rateLimit,
	}
}

func (s *Scraper) Name() string { return "scrape" }

// Headlines visits each page in order. Pages that fail are logged and
// skipped; an error is returned only if every page fails.
func (s *Scraper) Headlines(ctx context.Context) ([]string, error) {
	if len(s.pages) == 0 {
		return nil, errors.New("no scrape pages configured")
	}

	var (
		headlines []string
		errs      []error
	)
	seen := make(map[string]bool)

	for i, page := range s.pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && s.rateLimit > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.rateLimit):
			}
		}

		titles, err := s.scrapePage(ctx, page)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape page", err, "page", page.Name, "url", page.URL)
			errs = append(errs, fmt.Errorf("%s: %w", page.Name, err))
			continue
		}
		for _, t := range titles {
			if !seen[t] {
				seen[t] = true
				headlines = append(headlines, t)
			}
		}
	}

	if len(errs) == len(s.pages) {
		return nil, fmt.Errorf("all scrape pages failed: %w", errors.Join(errs...))
	}

	logger.Debug(ctx, "Scraping completed", "pages", len(s.pages), "headlines", len(headlines))
	return headlines, nil
}

func (s *Scraper) scrapePage(ctx context.Context, page store.ScrapePage) ([]string, error) {
	var titles []string

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML(page.Selector, func(e *colly.HTMLElement) {
		title := strings.Join(strings.Fields(e.Text), " ")
		if title != "" {
			titles = append(titles, title)
		}
	})

	if err := c.Visit(page.URL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", page.URL, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}
