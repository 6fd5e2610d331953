// Package relay posts computed predictions to the downstream backend.
package relay

import (
	"context"
	"net/http"
	"time"

	"StockCast/internal/domain/errs"
	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// Client forwards predictions with bearer-token authorization. No retry
// state is kept: the outcome is reported in the same request cycle.
type Client struct {
	url    string
	token  string
	http   *xhttp.Client
	logger *xlogger.Logger
}

// New creates a relay client for the backend predictions endpoint.
func New(url, token string, timeout time.Duration, logger *xlogger.Logger) *Client {
	return &Client{
		url:    url,
		token:  token,
		http:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger: logger,
	}
}

// Save posts the prediction. 200 means the backend stored it; any other
// status is "computed but not saved", reported with a nil error so the
// caller can treat it as partial success.
func (c *Client) Save(ctx context.Context, symbol string, price float64) (bool, error) {
	if c.token == "" {
		return false, errs.New(errs.KindConfiguration, "Backend API token not configured.")
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.url,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + c.token,
		},
		Body: models.RelayPayload{Symbol: symbol, PredictedPrice: price},
	})
	if err != nil {
		return false, errs.Wrap(errs.KindRelay, "relay request failed", err).WithSymbol(symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("backend rejected prediction",
			xlogger.String("symbol", symbol),
			xlogger.Int("status", resp.StatusCode),
		)
		return false, nil
	}
	return true, nil
}
