package types

import (
	"errors"
	"fmt"
	"time"
)

// Direction is the uniform action suggested for every tracked security in one run.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
	Hold Direction = "HOLD"
)

// Security is one registry entry.
type Security struct {
	Ticker string `yaml:"ticker" json:"ticker" validate:"required"`
	Sector string `yaml:"sector" json:"sector" validate:"required"`
}

// Registry is the ordered set of tracked securities.
type Registry []Security

// DefaultRegistry is the sector ETF set tracked out of the box.
func DefaultRegistry() Registry {
	return Registry{
		{Ticker: "XLE", Sector: "Energy"},
		{Ticker: "XLK", Sector: "Technology"},
		{Ticker: "XLF", Sector: "Financials"},
		{Ticker: "XLV", Sector: "Healthcare"},
	}
}

// ErrNoData is returned by price sources when a ticker has no closing price
// (delisted, suspended, unknown). It is distinct from a transport failure.
var ErrNoData = errors.New("no price data")

// Quote is the latest closing price for a ticker as of this run.
type Quote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Available bool      `json:"available"`
	AsOf      time.Time `json:"as_of,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// TradeSuggestion pairs the run's direction with one priced security.
type TradeSuggestion struct {
	Direction Direction `json:"direction"`
	Ticker    string    `json:"ticker"`
	Sector    string    `json:"sector"`
	Price     float64   `json:"price"`
}

// String renders the display form, e.g. "BUY XLE (Energy) at $80.00".
func (s TradeSuggestion) String() string {
	return fmt.Sprintf("%s %s (%s) at $%.2f", s.Direction, s.Ticker, s.Sector, s.Price)
}

// PriceFailure records a ticker whose lookup failed for a reason other than ErrNoData.
type PriceFailure struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
}

// ScoringFailure records a headline the scorer could not process.
type ScoringFailure struct {
	Headline string `json:"headline"`
	Error    string `json:"error"`
}

// Report is the outcome of one pipeline run.
type Report struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Source          string            `json:"source"`
	Sentiment       float64           `json:"sentiment"`
	Direction       Direction         `json:"direction"`
	FetchedCount    int               `json:"fetched_count"`
	MatchedCount    int               `json:"matched_count"`
	ScoredCount     int               `json:"scored_count"`
	Headlines       []string          `json:"headlines"`
	Suggestions     []TradeSuggestion `json:"suggestions"`
	Unpriced        []string          `json:"unpriced,omitempty"`
	PriceFailures   []PriceFailure    `json:"price_failures,omitempty"`
	ScoringFailures []ScoringFailure  `json:"scoring_failures,omitempty"`
}

// SuggestionLines returns the display strings for every suggestion.
func (r *Report) SuggestionLines() []string {
	lines := make([]string, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		lines = append(lines, s.String())
	}
	return lines
}

// Stage identifies a pipeline stage for failure reporting.
type Stage string

const (
	StageAcquisition Stage = "headline_acquisition"
	StageScoring     Stage = "sentiment_scoring"
	StagePricing     Stage = "price_lookup"
)

// StageError reports which pipeline stage failed. All stage failures are retryable.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
