// Package twelvedata implements the symbol-search and daily time-series
// boundaries against the Twelve Data REST API.
package twelvedata

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockCast/internal/domain/errs"
	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

const dateLayout = "2006-01-02"

// Client talks to Twelve Data. One instance serves both symbol resolution
// and market-data fetches; neither result is cached.
type Client struct {
	apiKey    string
	baseURL   string
	exchanges []string
	http      *xhttp.Client
	logger    *xlogger.Logger
}

// New creates a Twelve Data client.
func New(apiKey, baseURL string, exchanges []string, timeout time.Duration, logger *xlogger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		exchanges: exchanges,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:    logger,
	}
}

type searchResponse struct {
	// pointer distinguishes "no data field" (error payload) from "empty list"
	Data    *[]searchMatch `json:"data"`
	Status  string         `json:"status"`
	Message string         `json:"message"`
}

type searchMatch struct {
	Symbol string `json:"symbol"`
}

// Resolve maps a free-text query to a canonical exchange ticker. The lookup
// is restricted to the configured exchanges and instrument type "stock"; the
// first match in the provider's response order wins.
func (c *Client) Resolve(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return "", errs.New(errs.KindConfiguration, "Twelve Data API key not configured.")
	}

	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/symbol_search",
		QueryParams: map[string][]string{
			"symbol":   {query},
			"exchange": {strings.Join(c.exchanges, ",")},
			"type":     {"stock"},
			"apikey":   {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return "", errs.Wrap(errs.KindUpstream, "symbol search failed", err)
	}

	if resp.Data == nil {
		msg := resp.Message
		if msg == "" {
			msg = "No matching symbols found."
		}
		return "", errs.New(errs.KindUpstream, msg)
	}
	if len(*resp.Data) == 0 {
		return "", errs.Newf(errs.KindSymbolNotFound, "Invalid stock symbol or name.")
	}

	symbol := (*resp.Data)[0].Symbol
	c.logger.Debug("symbol resolved",
		xlogger.String("query", query),
		xlogger.String("symbol", symbol),
	)
	return symbol, nil
}

type seriesResponse struct {
	Values  []seriesValue `json:"values"`
	Status  string        `json:"status"`
	Message string        `json:"message"`
}

// Twelve Data returns OHLCV fields as strings.
type seriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// DailySeries fetches daily bars for a symbol over [from, to], oldest first.
func (c *Client) DailySeries(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	if c.apiKey == "" {
		return nil, errs.New(errs.KindConfiguration, "Twelve Data API key not configured.")
	}

	var resp seriesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/time_series",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"interval":   {"1day"},
			"start_date": {from.Format(dateLayout)},
			"end_date":   {to.Format(dateLayout)},
			"outputsize": {"5000"},
			"apikey":     {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstream, "time series fetch failed", err).WithSymbol(symbol)
	}

	if resp.Status == "error" {
		msg := resp.Message
		if msg == "" {
			msg = "time series request rejected"
		}
		return nil, errs.New(errs.KindUpstream, msg).WithSymbol(symbol)
	}
	if len(resp.Values) == 0 {
		return nil, errs.Newf(errs.KindNoData, "No data found for symbol: %s", symbol).WithSymbol(symbol)
	}

	series := make(models.PriceSeries, 0, len(resp.Values))
	for _, v := range resp.Values {
		rec, err := v.record()
		if err != nil {
			return nil, errs.Wrap(errs.KindUpstream, "malformed time series value", err).WithSymbol(symbol)
		}
		series = append(series, rec)
	}

	// provider returns newest first
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	return series, nil
}

func (v seriesValue) record() (models.PriceRecord, error) {
	date, err := time.Parse(dateLayout, v.Datetime)
	if err != nil {
		return models.PriceRecord{}, err
	}
	rec := models.PriceRecord{Date: date}
	for _, f := range []struct {
		s   string
		dst *float64
	}{
		{v.Open, &rec.Open},
		{v.High, &rec.High},
		{v.Low, &rec.Low},
		{v.Close, &rec.Close},
		{v.Volume, &rec.Volume},
	} {
		if f.s == "" {
			continue
		}
		x, err := strconv.ParseFloat(f.s, 64)
		if err != nil {
			return models.PriceRecord{}, err
		}
		*f.dst = x
	}
	return rec, nil
}
