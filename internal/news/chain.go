package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
)

// Chain tries each source in order and returns the first non-empty result.
// If every source succeeds with nothing, the empty list is returned; if
// every source errors, the errors are joined.
type Chain struct {
	sources []interfaces.HeadlineSource
}

var _ interfaces.HeadlineSource = (*Chain)(nil)

func NewChain(sources ...interfaces.HeadlineSource) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.sources))
	for _, s := range c.sources {
		names = append(names, s.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Headlines(ctx context.Context) ([]string, error) {
	if len(c.sources) == 0 {
		return nil, errors.New("empty source chain")
	}

	var errs []error
	succeeded := false
	for _, s := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		headlines, err := s.Headlines(ctx)
		if err != nil {
			logger.Warn(ctx, "Headline source failed, trying next", "source", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		succeeded = true
		if len(headlines) > 0 {
			return headlines, nil
		}
		logger.Debug(ctx, "Headline source returned nothing, trying next", "source", s.Name())
	}

	if succeeded {
		return []string{}, nil
	}
	return nil, errors.Join(errs...)
}
