// Package exchange fetches currency conversion rates from exchangerate-api.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// Client talks to the exchangerate-api v4 endpoint. Every conversion is a
// live request; rates are not cached, so callers decide how much staleness
// they can tolerate by how often they call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Convert turns amount in the from currency into the to currency using the
// latest published rate. Same-currency conversions skip the network.
func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	rate, err := c.rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

func (c *Client) rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch rates for %s: %w", from, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate service returned status %d for %s", resp.StatusCode, from)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode rate response: %w", err)
	}

	rate, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate published for %s to %s", from, to)
	}
	if rate.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("invalid rate %s for %s to %s", rate, from, to)
	}
	return rate, nil
}
