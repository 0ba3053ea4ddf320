package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"golang.org/x/time/rate"

	"tradebot/internal/interfaces"
	"tradebot/internal/types"
)

// Kite reads the previous close of exchange-listed instruments from the
// Kite Connect OHLC endpoint.
type Kite struct {
	kc       *kiteconnect.Client
	exchange string
	limiter  *rate.Limiter
}

var _ interfaces.PriceSource = (*Kite)(nil)

type KiteOptions struct {
	APIKey      string
	AccessToken string
	Exchange    string
	BaseURI     string
	Timeout     time.Duration
	// RequestsPerSecond throttles calls; zero disables throttling.
	RequestsPerSecond float64
}

func NewKite(opts KiteOptions) (*Kite, error) {
	if opts.APIKey == "" || opts.AccessToken == "" {
		return nil, errors.New("kite api key and access token are required")
	}
	if opts.Exchange == "" {
		opts.Exchange = "NSE"
	}

	kc := kiteconnect.New(opts.APIKey)
	kc.SetAccessToken(opts.AccessToken)
	if opts.BaseURI != "" {
		kc.SetBaseURI(opts.BaseURI)
	}
	if opts.Timeout > 0 {
		kc.SetHTTPClient(&http.Client{Timeout: opts.Timeout})
	}

	k := &Kite{kc: kc, exchange: opts.Exchange}
	if opts.RequestsPerSecond > 0 {
		k.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return k, nil
}

func (k *Kite) Name() string { return "kite" }

func (k *Kite) Quote(ctx context.Context, ticker string) (types.Quote, error) {
	if k.limiter != nil {
		if err := k.limiter.Wait(ctx); err != nil {
			return types.Quote{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	instrument := k.exchange + ":" + ticker
	ohlc, err := k.kc.GetOHLC(instrument)
	if err != nil {
		return types.Quote{}, fmt.Errorf("kite ohlc %s: %w", instrument, err)
	}
	if err := ctx.Err(); err != nil {
		return types.Quote{}, err
	}

	q, ok := ohlc[instrument]
	if !ok || q.OHLC.Close <= 0 {
		return types.Quote{}, fmt.Errorf("%w: %s", types.ErrNoData, instrument)
	}
	return types.Quote{
		Ticker:    ticker,
		Price:     q.OHLC.Close,
		Available: true,
		Source:    k.Name(),
	}, nil
}
