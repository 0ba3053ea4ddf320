package interfaces

import (
	"context"

	"tradebot/internal/types"
)

// HeadlineSource returns the current top headlines, in source order.
type HeadlineSource interface {
	Name() string
	Headlines(ctx context.Context) ([]string, error)
}

// Scorer returns the polarity of a piece of text in [-1, 1].
type Scorer interface {
	Name() string
	Score(ctx context.Context, text string) (float64, error)
}

// PriceSource returns the most recent closing price for a ticker.
// Implementations return types.ErrNoData (possibly wrapped) when the ticker has no price.
type PriceSource interface {
	Name() string
	Quote(ctx context.Context, ticker string) (types.Quote, error)
}
