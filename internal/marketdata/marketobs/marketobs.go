package marketobs

import (
	"context"
	"errors"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/trace"
	"tradebot/internal/types"
)

// observablePriceSource wraps a PriceSource with logging and tracing
type observablePriceSource struct {
	source interfaces.PriceSource
}

// Compile-time interface check
var _ interfaces.PriceSource = (*observablePriceSource)(nil)

// Wrap wraps a price source with observability middleware
func Wrap(source interfaces.PriceSource) interfaces.PriceSource {
	return &observablePriceSource{source: source}
}

func (o *observablePriceSource) Name() string {
	return o.source.Name()
}

// Quote looks up a price with observability. Missing data is logged as a
// warning, not an error.
func (o *observablePriceSource) Quote(ctx context.Context, ticker string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Quote")
	defer span.End()

	q, err := o.source.Quote(ctx, ticker)
	switch {
	case errors.Is(err, types.ErrNoData):
		logger.WarnSkip(ctx, 1, "No price data", "source", o.source.Name(), "ticker", ticker)
		return q, err
	case err != nil:
		logger.ErrorWithErrSkip(ctx, 1, "Price lookup failed", err, "source", o.source.Name(), "ticker", ticker)
		return q, err
	}

	logger.DebugSkip(ctx, 1, "Price fetched",
		"source", o.source.Name(),
		"ticker", ticker,
		"price", q.Price,
	)
	return q, nil
}
