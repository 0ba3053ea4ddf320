// Package render presents advisor reports and failures to a person: as the
// sectioned text report on a terminal or as JSON for scripts and the HTTP API.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"tradebot/internal/types"
)

const title = "TradeBot: Political Sentiment-Based Stock Advisor"

// View is the JSON shape of a report: the structured fields plus the
// display lines.
type View struct {
	*types.Report
	SuggestionLines []string `json:"suggestion_lines"`
}

func NewView(r *types.Report) View {
	return View{Report: r, SuggestionLines: r.SuggestionLines()}
}

// FailureView is the JSON shape of a failed run.
type FailureView struct {
	Stage     types.Stage `json:"stage,omitempty"`
	Error     string      `json:"error"`
	Retryable bool        `json:"retryable"`
}

// NewFailureView classifies err. Stage failures are always retryable.
func NewFailureView(err error) FailureView {
	var se *types.StageError
	if errors.As(err, &se) {
		return FailureView{Stage: se.Stage, Error: se.Err.Error(), Retryable: true}
	}
	return FailureView{Error: err.Error()}
}

// Text writes the report sections: score, top headlines, suggestions and,
// when anything was left out, warnings.
func Text(w io.Writer, r *types.Report) error {
	var b strings.Builder

	b.WriteString(title + "\n\n")

	b.WriteString("Political Sentiment Score\n")
	fmt.Fprintf(&b, "%.2f\n\n", r.Sentiment)

	b.WriteString("Top Headlines\n")
	if len(r.Headlines) == 0 {
		b.WriteString("(no political headlines matched)\n")
	}
	for _, h := range r.Headlines {
		b.WriteString("- " + h + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Trade Suggestions\n")
	if len(r.Suggestions) == 0 {
		b.WriteString("(no securities could be priced)\n")
	}
	for _, s := range r.SuggestionLines() {
		b.WriteString("• " + s + "\n")
	}

	if warnings := warningLines(r); len(warnings) > 0 {
		b.WriteString("\nWarnings\n")
		for _, line := range warnings {
			b.WriteString("! " + line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func warningLines(r *types.Report) []string {
	var out []string
	if len(r.Unpriced) > 0 {
		out = append(out, "no price data for "+strings.Join(r.Unpriced, ", "))
	}
	for _, f := range r.PriceFailures {
		out = append(out, fmt.Sprintf("price lookup failed for %s: %s", f.Ticker, f.Error))
	}
	if n := len(r.ScoringFailures); n > 0 {
		out = append(out, fmt.Sprintf("%d of %d matched headlines could not be scored and were excluded", n, r.MatchedCount))
	}
	return out
}

// Failure writes a human readable explanation of a failed run.
func Failure(w io.Writer, err error) error {
	v := NewFailureView(err)
	var msg string
	switch v.Stage {
	case types.StageAcquisition:
		msg = "Could not fetch news headlines"
	case types.StageScoring:
		msg = "Could not score headline sentiment"
	case types.StagePricing:
		msg = "Could not look up prices"
	default:
		msg = "Run failed"
	}
	if v.Retryable {
		_, werr := fmt.Fprintf(w, "%s: %s\nNo suggestions were produced. Please try again.\n", msg, v.Error)
		return werr
	}
	_, werr := fmt.Fprintf(w, "%s: %s\n", msg, v.Error)
	return werr
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, r *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewView(r))
}

// FailureJSON writes the failure view as indented JSON.
func FailureJSON(w io.Writer, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewFailureView(err))
}
