package news

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tradebot/internal/api"
	"tradebot/internal/interfaces"
)

// removedTitle is the placeholder NewsAPI returns for withdrawn articles.
const removedTitle = "[Removed]"

var ErrMissingAPIKey = errors.New("news api key not set")

// NewsAPI fetches top headlines from newsapi.org.
type NewsAPI struct {
	client   *api.Client
	apiKey   string
	country  string
	category string
	pageSize int
}

var _ interfaces.HeadlineSource = (*NewsAPI)(nil)

type NewsAPIOptions struct {
	APIKey   string
	Country  string
	Category string
	PageSize int
}

// NewNewsAPI expects client to carry the newsapi.org base URL.
func NewNewsAPI(client *api.Client, opts NewsAPIOptions) *NewsAPI {
	if opts.Country == "" {
		opts.Country = "us"
	}
	if opts.Category == "" {
		opts.Category = "general"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	return &NewsAPI{
		client:   client,
		apiKey:   opts.APIKey,
		country:  opts.Country,
		category: opts.Category,
		pageSize: opts.PageSize,
	}
}

func (n *NewsAPI) Name() string { return "newsapi" }

type topHeadlinesResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Headlines returns article titles in the order NewsAPI ranks them.
func (n *NewsAPI) Headlines(ctx context.Context) ([]string, error) {
	if n.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("country", n.country)
	q.Set("category", n.category)
	q.Set("pageSize", strconv.Itoa(n.pageSize))

	resp, err := n.client.GET(ctx, "/v2/top-headlines?"+q.Encode(), map[string]string{
		"X-Api-Key": n.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	var body topHeadlinesResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	if body.Status != "ok" {
		if body.Message != "" {
			return nil, fmt.Errorf("newsapi status %q: %s: %s", body.Status, body.Code, body.Message)
		}
		return nil, fmt.Errorf("newsapi status %q", body.Status)
	}

	headlines := make([]string, 0, len(body.Articles))
	for _, a := range body.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" || title == removedTitle {
			continue
		}
		headlines = append(headlines, title)
	}
	return headlines, nil
}
