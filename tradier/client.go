// Package tradier is a small client for the Tradier market data API: quotes,
// daily history and option chains.
package tradier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xhhuango/json"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/models"
	"github.com/bcdannyboy/protect/pricing"
)

const (
	DefaultBaseURL = "https://api.tradier.com/v1"
	dateLayout     = "2006-01-02"
)

var ErrNoData = errors.New("tradier: no data")

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different host, e.g. the sandbox.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Add("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response data from %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data from %s: %w", path, err)
	}
	return nil
}

// Quote returns the latest quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	var resp quotesResponse
	params := url.Values{"symbols": {symbol}, "greeks": {"false"}}
	if err := c.get(ctx, "/markets/quotes", params, &resp); err != nil {
		return Quote{}, err
	}
	for _, q := range resp.Quotes.Quote {
		if strings.EqualFold(q.Symbol, symbol) {
			return q, nil
		}
	}
	return Quote{}, fmt.Errorf("%w: quote for %s", ErrNoData, symbol)
}

// SpotPrice returns the last trade, falling back to the bid/ask midpoint and
// then the previous close.
func (c *Client) SpotPrice(ctx context.Context, ticker string) (float64, error) {
	q, err := c.Quote(ctx, ticker)
	if err != nil {
		return 0, err
	}
	switch {
	case q.Last != nil && *q.Last > 0:
		return *q.Last, nil
	case q.Bid > 0 && q.Ask >= q.Bid:
		return (q.Bid + q.Ask) / 2, nil
	case q.Prevclose != nil && *q.Prevclose > 0:
		return *q.Prevclose, nil
	}
	return 0, fmt.Errorf("%w: no price for %s", ErrNoData, ticker)
}

// History returns daily bars between start and end inclusive, oldest first.
func (c *Client) History(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	var resp historyResponse
	params := url.Values{
		"symbol":   {symbol},
		"interval": {"daily"},
		"start":    {start.Format(dateLayout)},
		"end":      {end.Format(dateLayout)},
	}
	if err := c.get(ctx, "/markets/history", params, &resp); err != nil {
		return nil, err
	}
	if resp.History == nil || len(resp.History.Day) == 0 {
		return nil, fmt.Errorf("%w: history for %s", ErrNoData, symbol)
	}

	bars := make([]models.Bar, 0, len(resp.History.Day))
	for _, d := range resp.History.Day {
		bars = append(bars, models.Bar{Date: d.Date, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close})
	}
	return bars, nil
}

// Expirations lists the option expiration dates for symbol.
func (c *Client) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	var resp expirationsResponse
	params := url.Values{"symbol": {symbol}, "includeAllRoots": {"true"}}
	if err := c.get(ctx, "/markets/options/expirations", params, &resp); err != nil {
		return nil, err
	}
	if resp.Expirations == nil {
		return nil, fmt.Errorf("%w: expirations for %s", ErrNoData, symbol)
	}

	dates := make([]time.Time, 0, len(resp.Expirations.Date))
	for _, s := range resp.Expirations.Date {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expiration date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Chain returns every option quoted for one expiration. Expiration times are
// set to the 16:00 US/Eastern close, approximated as 20:00 UTC.
func (c *Client) Chain(ctx context.Context, symbol string, expiration time.Time) ([]hedge.ChainQuote, error) {
	var resp chainResponse
	params := url.Values{"symbol": {symbol}, "expiration": {expiration.Format(dateLayout)}, "greeks": {"false"}}
	if err := c.get(ctx, "/markets/options/chains", params, &resp); err != nil {
		return nil, err
	}
	if resp.Options == nil {
		return nil, fmt.Errorf("%w: chain for %s %s", ErrNoData, symbol, expiration.Format(dateLayout))
	}

	quotes := make([]hedge.ChainQuote, 0, len(resp.Options.Option))
	for _, o := range resp.Options.Option {
		kind, err := pricing.ParseOptionKind(o.OptionType)
		if err != nil {
			continue
		}
		exp := expiration
		if o.ExpirationDate != "" {
			if d, err := time.Parse(dateLayout, o.ExpirationDate); err == nil {
				exp = d
			}
		}
		quotes = append(quotes, hedge.ChainQuote{
			Symbol:     o.Symbol,
			Kind:       kind,
			Strike:     o.Strike,
			Bid:        o.Bid,
			Ask:        o.Ask,
			Expiration: marketClose(exp),
		})
	}
	return quotes, nil
}

// PutChains fetches every expiration between minDTE and maxDTE days from now
// and returns the puts. progress, if not nil, is called after each chain.
func (c *Client) PutChains(ctx context.Context, symbol string, now time.Time, minDTE, maxDTE int, progress func(done, total int)) ([]hedge.ChainQuote, error) {
	expirations, err := c.Expirations(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var inRange []time.Time
	for _, exp := range expirations {
		dte := int(exp.Sub(now).Hours() / 24)
		if dte >= minDTE && dte <= maxDTE {
			inRange = append(inRange, exp)
		}
	}

	var puts []hedge.ChainQuote
	for i, exp := range inRange {
		chain, err := c.Chain(ctx, symbol, exp)
		if err != nil {
			return nil, err
		}
		for _, q := range chain {
			if q.Kind == pricing.Put {
				puts = append(puts, q)
			}
		}
		if progress != nil {
			progress(i+1, len(inRange))
		}
	}
	return puts, nil
}

func marketClose(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 20, 0, 0, 0, time.UTC)
}

var _ hedge.SpotLookup = (*Client)(nil)
