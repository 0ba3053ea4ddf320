package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/types"
)

func TestDecideDirectionBoundaries(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		in   float64
		want types.Direction
	}{
		{0.1, types.Hold},
		{0.1000001, types.Buy},
		{-0.1, types.Hold},
		{-0.1000001, types.Sell},
		{0, types.Hold},
		{0.4, types.Buy},
		{-0.75, types.Sell},
		{1, types.Buy},
		{-1, types.Sell},
		{5, types.Buy},
		{-42, types.Sell},
		{math.Inf(1), types.Buy},
		{math.Inf(-1), types.Sell},
		{math.NaN(), types.Hold},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DecideDirection(c.in, th), "polarity %v", c.in)
	}
}

func TestDecideDirectionExactlyOneBranch(t *testing.T) {
	th := DefaultThresholds()
	for x := -1.5; x <= 1.5; x += 0.01 {
		got := DecideDirection(x, th)
		isBuy := x > th.Buy
		isSell := x < th.Sell
		switch {
		case isBuy:
			assert.Equal(t, types.Buy, got, "x=%v", x)
		case isSell:
			assert.Equal(t, types.Sell, got, "x=%v", x)
		default:
			assert.Equal(t, types.Hold, got, "x=%v", x)
		}
	}
}

func TestDecideDirectionCustomThresholds(t *testing.T) {
	th := Thresholds{Buy: 0.5, Sell: -0.2}
	assert.Equal(t, types.Hold, DecideDirection(0.4, th))
	assert.Equal(t, types.Buy, DecideDirection(0.51, th))
	assert.Equal(t, types.Sell, DecideDirection(-0.21, th))
}

func TestMeanPolarity(t *testing.T) {
	constant := func(string) float64 { return 0.3 }
	assert.Equal(t, 0.0, MeanPolarity(nil, constant))
	assert.Equal(t, 0.0, MeanPolarity([]string{}, func(string) float64 { return 1 }))

	scores := map[string]float64{"a": 0.2, "b": -0.6}
	byText := func(h string) float64 { return scores[h] }
	assert.InDelta(t, (0.2-0.6)/2, MeanPolarity([]string{"a", "b"}, byText), 1e-12)
	assert.InDelta(t, 0.3, MeanPolarity([]string{"a", "b"}, constant), 1e-12)

	sign := 1.0
	alternating := func(string) float64 {
		sign = -sign
		return sign
	}
	mean := MeanPolarity([]string{"a", "b"}, alternating)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, types.Hold, DecideDirection(mean, DefaultThresholds()))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.25, Mean([]float64{0.5, 0}), 1e-12)

	scores := map[string]float64{"a": 0.7, "b": -0.1, "c": 0.05}
	headlines := []string{"a", "b", "c"}
	byText := func(h string) float64 { return scores[h] }
	assert.Equal(t, MeanPolarity(headlines, byText), Mean([]float64{0.7, -0.1, 0.05}))
}

func TestFilterHeadlines(t *testing.T) {
	headlines := []string{
		"Congress passes new inflation bill",
		"Local team wins championship",
		"PRESIDENT signs order",
		"Fed policy in focus",
		"Weather update",
	}
	got := FilterHeadlines(headlines, DefaultKeywords())
	assert.Equal(t, []string{
		"Congress passes new inflation bill",
		"PRESIDENT signs order",
		"Fed policy in focus",
	}, got)

	assert.Empty(t, FilterHeadlines(headlines, nil))
	assert.Empty(t, FilterHeadlines(nil, DefaultKeywords()))
	assert.Equal(t, []string{"Weather update"}, FilterHeadlines(headlines, []string{"  WEATHER "}))
}

func TestTop(t *testing.T) {
	h := []string{"1", "2", "3", "4", "5", "6", "7"}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, Top(h, 5))
	assert.Equal(t, []string{"1", "2"}, Top(h[:2], 5))
	assert.Empty(t, Top(h, 0))
}

func TestBuildSuggestionsOmitsMissingQuotes(t *testing.T) {
	registry := types.Registry{{Ticker: "A", Sector: "Sec1"}, {Ticker: "B", Sector: "Sec2"}}
	quotes := map[string]types.Quote{"A": {Ticker: "A", Price: 10.5, Available: true}}

	got := BuildSuggestions(types.Buy, registry, quotes)
	require.Len(t, got, 1)
	assert.Equal(t, types.TradeSuggestion{Direction: types.Buy, Ticker: "A", Sector: "Sec1", Price: 10.5}, got[0])
	assert.Equal(t, "BUY A (Sec1) at $10.50", got[0].String())
}

func TestBuildSuggestionsPreservesRegistryOrder(t *testing.T) {
	registry := types.DefaultRegistry()
	quotes := map[string]types.Quote{
		"XLV": {Price: 120.10, Available: true},
		"XLE": {Price: 80.00, Available: true},
		"XLK": {Available: false},
		"XLF": {Price: 35.25, Available: true},
	}

	got := BuildSuggestions(types.Buy, registry, quotes)
	lines := make([]string, 0, len(got))
	for _, s := range got {
		lines = append(lines, s.String())
	}
	assert.Equal(t, []string{
		"BUY XLE (Energy) at $80.00",
		"BUY XLF (Financials) at $35.25",
		"BUY XLV (Healthcare) at $120.10",
	}, lines)
}

func TestBuildSuggestionsCarriesUnroundedPrice(t *testing.T) {
	registry := types.Registry{{Ticker: "A", Sector: "S"}}
	got := BuildSuggestions(types.Sell, registry, map[string]types.Quote{"A": {Price: 10.456, Available: true}})
	require.Len(t, got, 1)
	assert.Equal(t, 10.456, got[0].Price)
	assert.Equal(t, "SELL A (S) at $10.46", got[0].String())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3))
	assert.Equal(t, -1.0, Clamp(-3))
	assert.Equal(t, 0.25, Clamp(0.25))
}
