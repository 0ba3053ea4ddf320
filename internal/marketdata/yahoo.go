package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tradebot/internal/api"
	"tradebot/internal/interfaces"
	"tradebot/internal/types"
)

// Yahoo looks up the latest daily close from the Yahoo Finance chart API.
type Yahoo struct {
	client    *api.Client
	rangeSpan string
}

var _ interfaces.PriceSource = (*Yahoo)(nil)

// NewYahoo expects client to carry the query1.finance.yahoo.com base URL.
// rangeSpan is the chart window, e.g. "5d"; the last non-null close in it wins.
func NewYahoo(client *api.Client, rangeSpan string) *Yahoo {
	if rangeSpan == "" {
		rangeSpan = "5d"
	}
	return &Yahoo{client: client, rangeSpan: rangeSpan}
}

func (y *Yahoo) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (y *Yahoo) Quote(ctx context.Context, ticker string) (types.Quote, error) {
	q := url.Values{}
	q.Set("range", y.rangeSpan)
	q.Set("interval", "1d")
	path := fmt.Sprintf("/v8/finance/chart/%s?%s", url.PathEscape(ticker), q.Encode())

	resp, err := y.client.GET(ctx, path, api.YahooFinanceHeaders())
	if err != nil {
		var he *api.HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusNotFound {
			return types.Quote{}, fmt.Errorf("%w: %s", types.ErrNoData, ticker)
		}
		return types.Quote{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	var body chartResponse
	if err := resp.ParseJSON(&body); err != nil {
		return types.Quote{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if e := body.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return types.Quote{}, fmt.Errorf("%w: %s", types.ErrNoData, ticker)
		}
		return types.Quote{}, fmt.Errorf("yahoo chart error: %s: %s", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return types.Quote{}, fmt.Errorf("%w: %s", types.ErrNoData, ticker)
	}

	price, asOf, ok := lastClose(body.Chart.Result[0])
	if !ok {
		return types.Quote{}, fmt.Errorf("%w: %s", types.ErrNoData, ticker)
	}
	return types.Quote{
		Ticker:    ticker,
		Price:     price,
		Available: true,
		AsOf:      asOf,
		Source:    y.Name(),
	}, nil
}

// lastClose walks the close series backwards to the newest positive value.
func lastClose(r chartResult) (float64, time.Time, bool) {
	if len(r.Indicators.Quote) == 0 {
		return 0, time.Time{}, false
	}
	closes := r.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		var asOf time.Time
		if i < len(r.Timestamp) {
			asOf = time.Unix(r.Timestamp[i], 0).UTC()
		}
		return *closes[i], asOf, true
	}
	return 0, time.Time{}, false
}
