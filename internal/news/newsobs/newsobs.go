package newsobs

import (
	"context"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/trace"
)

// observableSource wraps a HeadlineSource with logging and tracing
type observableSource struct {
	source interfaces.HeadlineSource
}

// Compile-time interface check
var _ interfaces.HeadlineSource = (*observableSource)(nil)

// Wrap wraps a headline source with observability middleware
func Wrap(source interfaces.HeadlineSource) interfaces.HeadlineSource {
	return &observableSource{source: source}
}

func (o *observableSource) Name() string {
	return o.source.Name()
}

// Headlines fetches headlines with observability
func (o *observableSource) Headlines(ctx context.Context) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "news.Headlines")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching headlines", "source", o.source.Name())

	headlines, err := o.source.Headlines(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch headlines", err, "source", o.source.Name())
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Headlines fetched",
		"source", o.source.Name(),
		"count", len(headlines),
	)
	return headlines, nil
}
