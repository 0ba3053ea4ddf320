package sentimentobs

import (
	"context"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/trace"
)

// observableScorer wraps a Scorer with logging and tracing
type observableScorer struct {
	scorer interfaces.Scorer
}

// Compile-time interface check
var _ interfaces.Scorer = (*observableScorer)(nil)

// Wrap wraps a scorer with observability middleware
func Wrap(scorer interfaces.Scorer) interfaces.Scorer {
	return &observableScorer{scorer: scorer}
}

func (o *observableScorer) Name() string {
	return o.scorer.Name()
}

// Score scores one headline with observability. Successful scores are
// logged at debug level since a run scores every matched headline.
func (o *observableScorer) Score(ctx context.Context, text string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "sentiment.Score")
	defer span.End()

	score, err := o.scorer.Score(ctx, text)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to score headline", err,
			"scorer", o.scorer.Name(),
			"headline", text,
		)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "Headline scored",
		"scorer", o.scorer.Name(),
		"headline", text,
		"score", score,
	)
	return score, nil
}
