package api

import (
	"tradebot/internal/store"
)

// NewFromConfig builds a client for one collaborator using the shared
// timeout, retry and breaker settings. name labels the breaker.
func NewFromConfig(cfg *store.Config, name string, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithTimeout(cfg.HTTP.Timeout),
		WithRetry(&RetryConfig{
			MaxAttempts: cfg.HTTP.Retry.MaxAttempts,
			InitialWait: cfg.HTTP.Retry.InitialWait,
			MaxWait:     cfg.HTTP.Retry.MaxWait,
		}),
		WithLogging(true),
	}
	if !cfg.HTTP.Breaker.Disabled {
		base = append(base, WithBreaker(BreakerConfig{
			Name:                name,
			ConsecutiveFailures: cfg.HTTP.Breaker.ConsecutiveFailures,
			OpenTimeout:         cfg.HTTP.Breaker.OpenTimeout,
		}))
	}
	return NewClient(append(base, opts...)...)
}
