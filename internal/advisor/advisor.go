package advisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/policy"
	"tradebot/internal/types"
)

// Options are the policy inputs of a run. A nil Thresholds means
// policy.DefaultThresholds; a non-nil one is used as given, zeros included.
type Options struct {
	Registry     types.Registry
	Keywords     []string
	Thresholds   *policy.Thresholds
	TopHeadlines int
	Concurrency  int
}

func (o Options) withDefaults() Options {
	if len(o.Registry) == 0 {
		o.Registry = types.DefaultRegistry()
	}
	if len(o.Keywords) == 0 {
		o.Keywords = policy.DefaultKeywords()
	}
	th := policy.DefaultThresholds()
	if o.Thresholds != nil {
		th = *o.Thresholds
	}
	o.Thresholds = &th
	if o.TopHeadlines <= 0 {
		o.TopHeadlines = 5
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

// Advisor turns headlines into one uniform trade direction applied to every
// priced registry security.
type Advisor struct {
	source   interfaces.HeadlineSource
	scorer   interfaces.Scorer
	prices   interfaces.PriceSource
	opts     Options
	recorder interfaces.Recorder
	now      func() time.Time
}

var _ interfaces.Advisor = (*Advisor)(nil)

// New builds an advisor. recorder may be nil.
func New(source interfaces.HeadlineSource, scorer interfaces.Scorer, prices interfaces.PriceSource, opts Options, recorder interfaces.Recorder) *Advisor {
	return &Advisor{
		source:   source,
		scorer:   scorer,
		prices:   prices,
		opts:     opts.withDefaults(),
		recorder: recorder,
		now:      time.Now,
	}
}

// Run executes one pass of the pipeline. A failing stage aborts the run with
// a *types.StageError; no partial report is returned in that case.
func (a *Advisor) Run(ctx context.Context) (*types.Report, error) {
	op := logger.StartOperation(ctx, "advisor.acquisition", "source", a.source.Name())
	headlines, err := a.source.Headlines(op.GetContext())
	if err != nil {
		return nil, a.fail(op, types.StageAcquisition, err)
	}
	a.observe(types.StageAcquisition, op.End("fetched", len(headlines)))

	matched := policy.FilterHeadlines(headlines, a.opts.Keywords)
	logger.Debug(ctx, "Headlines filtered", "fetched", len(headlines), "matched", len(matched))

	op = logger.StartOperation(ctx, "advisor.scoring", "scorer", a.scorer.Name(), "headlines", len(matched))
	scores, failures, err := a.score(op.GetContext(), matched)
	if err != nil {
		return nil, a.fail(op, types.StageScoring, err)
	}
	a.observe(types.StageScoring, op.End("scored", len(scores), "failed", len(failures)))

	mean := policy.Mean(scores)
	direction := policy.DecideDirection(mean, *a.opts.Thresholds)
	logger.Decision(ctx, string(direction), mean, len(matched), "scored", len(scores))

	op = logger.StartOperation(ctx, "advisor.pricing", "source", a.prices.Name(), "tickers", len(a.opts.Registry))
	quotes, unpriced, priceFailures, err := a.quote(op.GetContext())
	if err != nil {
		return nil, a.fail(op, types.StagePricing, err)
	}
	a.observe(types.StagePricing, op.End("priced", len(quotes), "unpriced", len(unpriced), "failed", len(priceFailures)))

	report := &types.Report{
		GeneratedAt:     a.now().UTC(),
		Source:          a.source.Name(),
		Sentiment:       mean,
		Direction:       direction,
		FetchedCount:    len(headlines),
		MatchedCount:    len(matched),
		ScoredCount:     len(scores),
		Headlines:       policy.Top(matched, a.opts.TopHeadlines),
		Suggestions:     policy.BuildSuggestions(direction, a.opts.Registry, quotes),
		Unpriced:        unpriced,
		PriceFailures:   priceFailures,
		ScoringFailures: failures,
	}
	if a.recorder != nil {
		a.recorder.RecordRun(report)
	}
	return report, nil
}

// score rates every headline concurrently. A failed headline is left out of
// the result and reported; the stage only fails if nothing could be scored.
func (a *Advisor) score(ctx context.Context, headlines []string) ([]float64, []types.ScoringFailure, error) {
	if len(headlines) == 0 {
		return nil, nil, nil
	}

	results := make([]float64, len(headlines))
	errs := make([]error, len(headlines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, h := range headlines {
		g.Go(func() error {
			s, err := a.scorer.Score(gctx, h)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = policy.Clamp(s)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	scores := make([]float64, 0, len(headlines))
	var failures []types.ScoringFailure
	for i, h := range headlines {
		if errs[i] != nil {
			logger.Warn(ctx, "Headline excluded from sentiment", "headline", h, "error", errs[i])
			failures = append(failures, types.ScoringFailure{Headline: h, Error: errs[i].Error()})
			continue
		}
		scores = append(scores, results[i])
	}
	if len(scores) == 0 {
		return nil, failures, errors.Join(errs...)
	}
	return scores, failures, nil
}

// quote looks up every registry ticker concurrently. Lookups are independent:
// ErrNoData marks the ticker unpriced, other errors are recorded per ticker.
// Only cancellation of ctx fails the stage.
func (a *Advisor) quote(ctx context.Context) (map[string]types.Quote, []string, []types.PriceFailure, error) {
	reg := a.opts.Registry
	quotes := make(map[string]types.Quote, len(reg))
	errs := make([]error, len(reg))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(a.opts.Concurrency)
	for i, sec := range reg {
		g.Go(func() error {
			q, err := a.prices.Quote(ctx, sec.Ticker)
			if err == nil && (!q.Available || q.Price <= 0) {
				err = types.ErrNoData
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			mu.Lock()
			quotes[sec.Ticker] = q
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	var unpriced []string
	var failures []types.PriceFailure
	for i, sec := range reg {
		switch {
		case errs[i] == nil:
		case errors.Is(errs[i], types.ErrNoData):
			unpriced = append(unpriced, sec.Ticker)
		default:
			failures = append(failures, types.PriceFailure{Ticker: sec.Ticker, Error: errs[i].Error()})
		}
	}
	return quotes, unpriced, failures, nil
}

func (a *Advisor) fail(op *logger.OperationTimer, stage types.Stage, err error) error {
	a.observe(stage, op.EndWithError(err, "stage", string(stage)))
	if a.recorder != nil {
		a.recorder.RecordStageFailure(stage)
	}
	return &types.StageError{Stage: stage, Err: err}
}

func (a *Advisor) observe(stage types.Stage, d time.Duration) {
	if a.recorder != nil {
		a.recorder.RecordLatency(stage, d.Seconds())
	}
}
