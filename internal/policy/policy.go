// Package policy holds the pure decision logic: headline filtering, polarity
// aggregation, the sentiment-to-direction thresholds and suggestion building.
// Nothing here performs I/O or can fail.
package policy

import (
	"strings"

	"tradebot/internal/types"
)

// Thresholds are the two cut points of the direction rule.
type Thresholds struct {
	Buy  float64 `yaml:"buy" json:"buy" default:"0.1"`
	Sell float64 `yaml:"sell" json:"sell" default:"-0.1"`
}

// DefaultThresholds returns the standard +/-0.1 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{Buy: 0.1, Sell: -0.1}
}

// DefaultKeywords is the political/economic keyword set headlines are matched against.
func DefaultKeywords() []string {
	return []string{"election", "congress", "president", "policy", "inflation"}
}

// DecideDirection maps a mean polarity to a direction. BUY requires strictly
// more than th.Buy, SELL strictly less than th.Sell; everything else,
// both bounds and NaN included, is HOLD.
func DecideDirection(meanPolarity float64, th Thresholds) types.Direction {
	switch {
	case meanPolarity > th.Buy:
		return types.Buy
	case meanPolarity < th.Sell:
		return types.Sell
	default:
		return types.Hold
	}
}

// MeanPolarity is the arithmetic mean of score over headlines, 0 for no headlines.
func MeanPolarity(headlines []string, score func(string) float64) float64 {
	scores := make([]float64, len(headlines))
	for i, h := range headlines {
		scores[i] = score(h)
	}
	return Mean(scores)
}

// Mean averages already-computed scores, 0 for none. It is the form of
// MeanPolarity used once headlines have been scored concurrently.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// FilterHeadlines keeps headlines containing at least one keyword, compared
// case-insensitively. Input order is preserved.
func FilterHeadlines(headlines, keywords []string) []string {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}

	out := make([]string, 0, len(headlines))
	for _, h := range headlines {
		text := strings.ToLower(h)
		for _, k := range lowered {
			if strings.Contains(text, k) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// Top returns at most the first n headlines.
func Top(headlines []string, n int) []string {
	if n < 0 || len(headlines) <= n {
		return headlines
	}
	return headlines[:n]
}

// BuildSuggestions pairs direction with every registry entry whose quote is
// available, in registry order. Missing or unavailable quotes are skipped.
func BuildSuggestions(direction types.Direction, registry types.Registry, quotes map[string]types.Quote) []types.TradeSuggestion {
	out := make([]types.TradeSuggestion, 0, len(registry))
	for _, sec := range registry {
		q, ok := quotes[sec.Ticker]
		if !ok || !q.Available {
			continue
		}
		out = append(out, types.TradeSuggestion{
			Direction: direction,
			Ticker:    sec.Ticker,
			Sector:    sec.Sector,
			Price:     q.Price,
		})
	}
	return out
}

// Clamp bounds a polarity to [-1, 1].
func Clamp(p float64) float64 {
	if p > 1 {
		return 1
	}
	if p < -1 {
		return -1
	}
	return p
}
