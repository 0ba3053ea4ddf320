package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"tradebot/internal/policy"
	"tradebot/internal/types"
)

var validate = validator.New()

// ScrapePage is one HTML page the scraper pulls headlines from.
type ScrapePage struct {
	Name     string `yaml:"name" validate:"required"`
	URL      string `yaml:"url" validate:"required,url"`
	Selector string `yaml:"selector" validate:"required"`
}

type Config struct {
	Registry     types.Registry    `yaml:"registry" validate:"required,min=1,dive"`
	Keywords     []string          `yaml:"keywords" validate:"required,min=1,dive,required"`
	Thresholds   policy.Thresholds `yaml:"thresholds"`
	TopHeadlines int               `yaml:"top_headlines" default:"5" validate:"min=1"`
	Concurrency  int               `yaml:"concurrency" default:"4" validate:"min=1,max=64"`

	News struct {
		Provider string   `yaml:"provider" default:"NEWSAPI" validate:"oneof=NEWSAPI RSS SCRAPE CHAIN"`
		Chain    []string `yaml:"chain" validate:"dive,oneof=NEWSAPI RSS SCRAPE"`
		NewsAPI  struct {
			BaseURL   string `yaml:"base_url" default:"https://newsapi.org" validate:"url"`
			APIKeyEnv string `yaml:"api_key_env" default:"NEWS_API_KEY"`
			Country   string `yaml:"country" default:"us"`
			Category  string `yaml:"category" default:"general"`
			PageSize  int    `yaml:"page_size" default:"100" validate:"min=1,max=100"`
		} `yaml:"newsapi"`
		RSS struct {
			Feeds []string `yaml:"feeds" validate:"dive,url"`
		} `yaml:"rss"`
		Scrape struct {
			Pages []ScrapePage  `yaml:"pages" validate:"dive"`
			Delay time.Duration `yaml:"delay" default:"1s"`
		} `yaml:"scrape"`
	} `yaml:"news"`

	Sentiment struct {
		Provider  string  `yaml:"provider" default:"LEXICON" validate:"oneof=LEXICON OPENAI CLAUDE"`
		Model     string  `yaml:"model"`
		APIKeyEnv string  `yaml:"api_key_env"`
		Endpoint  string  `yaml:"endpoint"`
		MaxTokens int     `yaml:"max_tokens" default:"60" validate:"min=1"`
		System    string  `yaml:"system"`
		Temp      float32 `yaml:"temperature"`
	} `yaml:"sentiment"`

	MarketData struct {
		Provider          string  `yaml:"provider" default:"YAHOO" validate:"oneof=YAHOO KITE"`
		RequestsPerSecond float64 `yaml:"requests_per_second" default:"5" validate:"gt=0"`
		Yahoo             struct {
			BaseURL string `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
			Range   string `yaml:"range" default:"5d"`
		} `yaml:"yahoo"`
		Kite struct {
			Exchange       string `yaml:"exchange" default:"NSE"`
			APIKeyEnv      string `yaml:"api_key_env" default:"KITE_API_KEY"`
			AccessTokenEnv string `yaml:"access_token_env" default:"KITE_ACCESS_TOKEN"`
			BaseURI        string `yaml:"base_uri"`
		} `yaml:"kite"`
	} `yaml:"market_data"`

	HTTP struct {
		Timeout time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
		Retry   struct {
			MaxAttempts int           `yaml:"max_attempts" default:"3" validate:"min=1,max=10"`
			InitialWait time.Duration `yaml:"initial_wait" default:"500ms"`
			MaxWait     time.Duration `yaml:"max_wait" default:"5s"`
		} `yaml:"retry"`
		Breaker struct {
			Disabled            bool          `yaml:"disabled"`
			ConsecutiveFailures uint32        `yaml:"consecutive_failures" default:"5" validate:"min=1"`
			OpenTimeout         time.Duration `yaml:"open_timeout" default:"30s"`
		} `yaml:"breaker"`
	} `yaml:"http"`

	Server struct {
		Addr       string        `yaml:"addr" default:":8080"`
		RunTimeout time.Duration `yaml:"run_timeout" default:"60s" validate:"gt=0"`
	} `yaml:"server"`
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Thresholds.Sell > c.Thresholds.Buy {
		return fmt.Errorf("thresholds.sell (%.3f) must not exceed thresholds.buy (%.3f)", c.Thresholds.Sell, c.Thresholds.Buy)
	}
	seen := make(map[string]bool, len(c.Registry))
	for _, s := range c.Registry {
		key := strings.ToUpper(s.Ticker)
		if seen[key] {
			return fmt.Errorf("registry ticker '%s' listed more than once", s.Ticker)
		}
		seen[key] = true
	}
	if c.HTTP.Retry.MaxWait < c.HTTP.Retry.InitialWait {
		return errors.New("http.retry.max_wait must be >= http.retry.initial_wait")
	}
	if err := c.validateNewsProvider(c.News.Provider); err != nil {
		return err
	}
	if c.News.Provider == "CHAIN" {
		if len(c.News.Chain) == 0 {
			return errors.New("news.chain cannot be empty when news.provider is CHAIN")
		}
		for _, p := range c.News.Chain {
			if err := c.validateNewsProvider(p); err != nil {
				return err
			}
		}
	}
	if (c.Sentiment.Provider == "OPENAI" || c.Sentiment.Provider == "CLAUDE") && c.Sentiment.Model == "" {
		return fmt.Errorf("sentiment.model is required for provider '%s'", c.Sentiment.Provider)
	}
	return nil
}

func (c *Config) validateNewsProvider(p string) error {
	switch p {
	case "RSS":
		if len(c.News.RSS.Feeds) == 0 {
			return errors.New("news.rss.feeds cannot be empty for the RSS provider")
		}
	case "SCRAPE":
		if len(c.News.Scrape.Pages) == 0 {
			return errors.New("news.scrape.pages cannot be empty for the SCRAPE provider")
		}
	}
	return nil
}

// applyDefaults sets the struct-tag defaults. It runs before decoding so an
// explicit zero in the file (thresholds.buy: 0) is kept.
func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply config defaults: %w", err)
	}
	return nil
}

// fillEmpty sets the slice and provider-dependent defaults left empty after decoding.
func (c *Config) fillEmpty() {
	if len(c.Registry) == 0 {
		c.Registry = types.DefaultRegistry()
	}
	if len(c.Keywords) == 0 {
		c.Keywords = policy.DefaultKeywords()
	}
	if c.Sentiment.APIKeyEnv == "" {
		switch c.Sentiment.Provider {
		case "OPENAI":
			c.Sentiment.APIKeyEnv = "OPENAI_API_KEY"
		case "CLAUDE":
			c.Sentiment.APIKeyEnv = "CLAUDE_API_KEY"
		}
	}
}

// Default returns the built-in configuration: the four sector ETFs, the
// political keyword set, +/-0.1 thresholds and NewsAPI + Yahoo collaborators.
func Default() *Config {
	var c Config
	if err := c.applyDefaults(); err != nil {
		panic(err)
	}
	c.fillEmpty()
	return &c
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML, applies defaults and validates.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.fillEmpty()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
