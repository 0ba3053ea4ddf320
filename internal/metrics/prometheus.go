package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tradebot/internal/interfaces"
	"tradebot/internal/types"
)

// Recorder implements interfaces.Recorder using Prometheus.
type Recorder struct {
	runs          *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	stageLatency  *prometheus.HistogramVec
	lastSentiment prometheus.Gauge
	headlines     *prometheus.GaugeVec
	unpriced      prometheus.Counter
}

var _ interfaces.Recorder = (*Recorder)(nil)

// New registers the advisor metrics on reg. Pass prometheus.DefaultRegisterer
// for the process-wide registry or a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradebot_runs_total",
				Help: "Completed advisor runs by resulting direction",
			},
			[]string{"direction"},
		),
		stageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradebot_stage_failures_total",
				Help: "Advisor runs aborted by a failing pipeline stage",
			},
			[]string{"stage"},
		),
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradebot_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		lastSentiment: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradebot_last_sentiment",
				Help: "Mean polarity of the most recent completed run",
			},
		),
		headlines: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradebot_last_headlines",
				Help: "Headline counts of the most recent completed run",
			},
			[]string{"kind"},
		),
		unpriced: f.NewCounter(
			prometheus.CounterOpts{
				Name: "tradebot_unpriced_total",
				Help: "Registry securities omitted because no price was available",
			},
		),
	}
}

// RecordRun records a completed run.
func (r *Recorder) RecordRun(report *types.Report) {
	r.runs.WithLabelValues(string(report.Direction)).Inc()
	r.lastSentiment.Set(report.Sentiment)
	r.headlines.WithLabelValues("fetched").Set(float64(report.FetchedCount))
	r.headlines.WithLabelValues("matched").Set(float64(report.MatchedCount))
	r.headlines.WithLabelValues("scored").Set(float64(report.ScoredCount))
	r.unpriced.Add(float64(len(report.Unpriced) + len(report.PriceFailures)))
}

// RecordStageFailure records a run aborted at stage.
func (r *Recorder) RecordStageFailure(stage types.Stage) {
	r.stageFailures.WithLabelValues(string(stage)).Inc()
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(stage types.Stage, seconds float64) {
	r.stageLatency.WithLabelValues(string(stage)).Observe(seconds)
}
