// Package eodhd implements a folio.PriceSource backed by the EOD Historical
// Data API (https://eodhd.com).
//
// Responses are cached on disk with a key that includes the current day, so
// repeated computations within a day never hit the vendor twice for the same
// series.
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mgirard/folio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://eodhd.com"

// Client queries the EODHD REST API. The zero value is not usable, use New.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// New returns a client using the daily disk-caching HTTP transport.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  newDailyCachingClient(),
		log:     zerolog.Nop(),
	}
}

// WithLogger returns a copy of the client logging through log.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c2 := *c
	c2.log = log.With().Str("component", "eodhd").Logger()
	return &c2
}

// withTransport is used by tests to point the client at a fixture server.
func (c *Client) withTransport(baseURL string, client *http.Client) *Client {
	c2 := *c
	c2.baseURL = baseURL
	c2.client = client
	return &c2
}

// Closes implements folio.PriceSource.
//
// The eod endpoint returns both bounds inclusive, one object per trading
// day. Non-trading days are absent from the response.
func (c *Client) Closes(ctx context.Context, symbol string, r folio.Range) (folio.Series, error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json&from=2017-01-05&to=2017-02-10
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey), r.From, r.To)

	type line struct {
		Date  folio.Date      `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	content := make([]line, 0)
	if err := jwget(ctx, c.client, addr, &content); err != nil {
		return folio.Series{}, fmt.Errorf("fetching eod closes for %q: %w", symbol, err)
	}

	points := make([]folio.PricePoint, 0, len(content))
	for _, l := range content {
		points = append(points, folio.PricePoint{Date: l.Date, Close: l.Close})
	}
	c.log.Debug().Str("symbol", symbol).Int("closes", len(points)).Msg("eod series fetched")
	return folio.NewSeries(points...), nil
}
