// Package alphavantage looks up historical daily closing prices from the
// Alpha Vantage TIME_SERIES_DAILY endpoint.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/captax"
	"github.com/etnz/captax/date"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultURL is the Alpha Vantage query endpoint.
	DefaultURL = "https://www.alphavantage.co/query"
	// DefaultLookback is the number of days searched, starting on the requested
	// day, before giving up.
	DefaultLookback = 30
)

var (
	ErrNoPrice       = errors.New("no price data found for nearby dates")
	ErrRateLimited   = errors.New("alpha vantage rate limit or information note")
	ErrMissingAPIKey = errors.New("ALPHAVANTAGE_API_KEY not set")
)

// daily is a decoded time series: closing price per trading day.
type daily map[date.Date]decimal.Decimal

// Client fetches daily closing prices.
//
// Responses are cached on disk for the day, decoded series are kept in memory
// for the client lifetime. A Client is safe for concurrent use.
type Client struct {
	apiKey     string
	url        string
	outputSize string // empty for the compact default
	lookback   int
	cacheDir   string
	logger     *zap.Logger
	http       *http.Client

	series *cache.Cache
	group  singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the query endpoint.
func WithURL(u string) Option { return func(c *Client) { c.url = u } }

// WithLookback sets how many days are searched for a trading day.
func WithLookback(days int) Option { return func(c *Client) { c.lookback = days } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithCacheDir sets the directory of the daily disk cache. An empty dir
// disables the disk cache.
func WithCacheDir(dir string) Option { return func(c *Client) { c.cacheDir = dir } }

// WithFullOutput requests the whole history instead of the latest 100
// trading days. Free API keys are not entitled to it.
func WithFullOutput() Option { return func(c *Client) { c.outputSize = "full" } }

// New creates a Client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		url:      DefaultURL,
		lookback: DefaultLookback,
		cacheDir: os.TempDir(),
		logger:   zap.NewNop(),
		http:     &http.Client{Timeout: 30 * time.Second, Transport: http.DefaultTransport},
		series:   cache.New(time.Hour, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheDir != "" {
		c.http.Transport = &diskCache{base: c.http.Transport, dir: c.cacheDir, logger: c.logger}
	}
	return c
}

// Close returns the closing price of symbol on day, or on the closest previous
// trading day. The day actually used is returned along with the price.
func (c *Client) Close(ctx context.Context, symbol string, day date.Date) (decimal.Decimal, date.Date, error) {
	symbol = captax.NormalizeSymbol(symbol)
	if symbol == "" {
		return decimal.Zero, date.Date{}, fmt.Errorf("%w: symbol is missing", captax.ErrUnknownSymbol)
	}
	if day.IsZero() || day.After(date.Today()) {
		return decimal.Zero, date.Date{}, fmt.Errorf("%w: no price for %s on %s", captax.ErrInvalidDate, symbol, day)
	}
	series, err := c.daily(ctx, symbol)
	if err != nil {
		return decimal.Zero, date.Date{}, err
	}
	for i := 0; i < c.lookback; i++ {
		d := day.Add(-i)
		if v, ok := series[d]; ok {
			if i > 0 {
				c.logger.Debug("using previous trading day", zap.String("symbol", symbol), zap.Stringer("requested", day), zap.Stringer("day", d))
			}
			return v, d, nil
		}
	}
	return decimal.Zero, date.Date{}, fmt.Errorf("%w: %s on %s", ErrNoPrice, symbol, day)
}

// daily returns the series for symbol, fetching it at most once at a time.
func (c *Client) daily(ctx context.Context, symbol string) (daily, error) {
	if v, found := c.series.Get(symbol); found {
		return v.(daily), nil
	}
	v, err, _ := c.group.Do(symbol, func() (any, error) {
		series, err := c.fetch(ctx, symbol)
		if err != nil {
			return nil, err
		}
		c.series.Set(symbol, series, cache.DefaultExpiration)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(daily), nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (daily, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	if c.outputSize != "" {
		q.Set("outputsize", c.outputSize)
	}
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "captax/1.0")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s prices: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot fetch %s prices: http %s", symbol, resp.Status)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("cannot decode %s prices: %w", symbol, err)
	}
	return parseDaily(symbol, payload)
}

// parseDaily reads a TIME_SERIES_DAILY payload.
func parseDaily(symbol string, payload any) (daily, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s: %T", symbol, payload)
	}
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := obj[key]; ok {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, msg)
		}
	}
	if msg, ok := obj["Error Message"]; ok {
		return nil, fmt.Errorf("%w: %s: %v", captax.ErrUnknownSymbol, symbol, msg)
	}

	path := `$["Time Series (Daily)"]`
	jval, err := jsonpath.Get(path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no daily prices", captax.ErrUnknownSymbol, symbol)
	}
	days, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: %q is %T", symbol, path, jval)
	}

	series := make(daily, len(days))
	for key, values := range days {
		day, err := date.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", symbol, err)
		}
		jclose, err := jsonpath.Get(`$["4. close"]`, values)
		if err != nil {
			return nil, fmt.Errorf("error parsing %q on %s: %w", symbol, key, err)
		}
		sclose, ok := jclose.(string)
		if !ok {
			return nil, fmt.Errorf("error parsing %q on %s: close is %T", symbol, key, jclose)
		}
		v, err := decimal.NewFromString(sclose)
		if err != nil {
			return nil, fmt.Errorf("error parsing %q on %s: %w", symbol, key, err)
		}
		series[day] = v
	}
	return series, nil
}
