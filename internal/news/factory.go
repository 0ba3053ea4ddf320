package news

import (
	"fmt"
	"os"

	"tradebot/internal/api"
	"tradebot/internal/interfaces"
	"tradebot/internal/store"
)

// NewSource builds the headline source selected by news.provider.
func NewSource(cfg *store.Config) (interfaces.HeadlineSource, error) {
	if cfg.News.Provider == "CHAIN" {
		sources := make([]interfaces.HeadlineSource, 0, len(cfg.News.Chain))
		for _, p := range cfg.News.Chain {
			s, err := newProvider(cfg, p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, s)
		}
		return NewChain(sources...), nil
	}
	return newProvider(cfg, cfg.News.Provider)
}

func newProvider(cfg *store.Config, provider string) (interfaces.HeadlineSource, error) {
	switch provider {
	case "NEWSAPI":
		n := cfg.News.NewsAPI
		client := api.NewFromConfig(cfg, "newsapi", api.WithBaseURL(n.BaseURL))
		return NewNewsAPI(client, NewsAPIOptions{
			APIKey:   os.Getenv(n.APIKeyEnv),
			Country:  n.Country,
			Category: n.Category,
			PageSize: n.PageSize,
		}), nil
	case "RSS":
		return NewRSS(cfg.News.RSS.Feeds, cfg.HTTP.Timeout), nil
	case "SCRAPE":
		return NewScraper(cfg.News.Scrape.Pages, cfg.HTTP.Timeout, cfg.News.Scrape.Delay), nil
	default:
		return nil, fmt.Errorf("unsupported news provider: %s", provider)
	}
}
