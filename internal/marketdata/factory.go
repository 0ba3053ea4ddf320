package marketdata

import (
	"fmt"
	"os"

	"tradebot/internal/api"
	"tradebot/internal/interfaces"
	"tradebot/internal/store"
)

// NewSource builds the price source selected by market_data.provider.
func NewSource(cfg *store.Config) (interfaces.PriceSource, error) {
	md := cfg.MarketData
	switch md.Provider {
	case "", "YAHOO":
		client := api.NewFromConfig(cfg, "yahoo",
			api.WithBaseURL(md.Yahoo.BaseURL),
			api.WithRateLimit(md.RequestsPerSecond, 1),
		)
		return NewYahoo(client, md.Yahoo.Range), nil
	case "KITE":
		return NewKite(KiteOptions{
			APIKey:            os.Getenv(md.Kite.APIKeyEnv),
			AccessToken:       os.Getenv(md.Kite.AccessTokenEnv),
			Exchange:          md.Kite.Exchange,
			BaseURI:           md.Kite.BaseURI,
			Timeout:           cfg.HTTP.Timeout,
			RequestsPerSecond: md.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", md.Provider)
	}
}
