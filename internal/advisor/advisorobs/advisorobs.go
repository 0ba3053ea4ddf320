package advisorobs

import (
	"context"
	"time"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/trace"
	"tradebot/internal/types"
)

type observableAdvisor struct {
	advisor interfaces.Advisor
}

var _ interfaces.Advisor = (*observableAdvisor)(nil)

func Wrap(adv interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{
		advisor: adv,
	}
}

func (oa *observableAdvisor) Run(ctx context.Context) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting suggestion run")

	report, err := oa.advisor.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Suggestion run failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Suggestion run completed",
		"direction", report.Direction,
		"sentiment", report.Sentiment,
		"matched", report.MatchedCount,
		"suggestions", len(report.Suggestions),
		"unpriced", len(report.Unpriced)+len(report.PriceFailures),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}
