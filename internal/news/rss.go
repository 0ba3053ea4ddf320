package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
)

// RSS reads item titles from a list of RSS or Atom feeds.
type RSS struct {
	feeds   []string
	timeout time.Duration
}

var _ interfaces.HeadlineSource = (*RSS)(nil)

func NewRSS(feeds []string, timeout time.Duration) *RSS {
	return &RSS{feeds: feeds, timeout: timeout}
}

func (r *RSS) Name() string { return "rss" }

// Headlines fetches every feed concurrently and returns titles grouped by
// feed in configuration order. A feed that fails is skipped; the call only
// fails when every feed does.
func (r *RSS) Headlines(ctx context.Context) ([]string, error) {
	if len(r.feeds) == 0 {
		return nil, errors.New("no rss feeds configured")
	}

	perFeed := make([][]string, len(r.feeds))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, feedURL := range r.feeds {
		g.Go(func() error {
			titles, err := r.fetch(gctx, feedURL)
			if err != nil {
				logger.Warn(ctx, "RSS feed failed", "feed", feedURL, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", feedURL, err))
				mu.Unlock()
				return nil
			}
			perFeed[i] = titles
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(errs) == len(r.feeds) {
		return nil, fmt.Errorf("all rss feeds failed: %w", errors.Join(errs...))
	}

	var headlines []string
	for _, titles := range perFeed {
		headlines = append(headlines, titles...)
	}
	return headlines, nil
}

func (r *RSS) fetch(ctx context.Context, feedURL string) ([]string, error) {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: r.timeout}

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if title := cleanHTML(item.Title); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// cleanHTML strips markup and collapses whitespace.
func cleanHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
