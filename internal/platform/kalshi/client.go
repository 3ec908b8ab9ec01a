// Package kalshi provides a REST client for the public Kalshi exchange API.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// Client is the REST client for the Kalshi trade API. Market data endpoints
// are public and require no authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Kalshi REST client.
//
// baseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchActiveMarkets returns currently open Kalshi markets converted to the
// canonical domain.Market. Closed, settled, and quoteless markets are
// excluded. Fetch or decode failures are reported as
// domain.ErrSourceUnavailable.
func (c *Client) FetchActiveMarkets(ctx context.Context, limit int) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("status", "open")

	body, err := c.doGet(ctx, "/markets?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Markets []APIMarket `json:"markets"`
		Cursor  string      `json:"cursor"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("kalshi: decode markets: %w", domain.ErrSourceUnavailable)
	}

	markets := make([]domain.Market, 0, len(resp.Markets))
	for i := range resp.Markets {
		if m, ok := resp.Markets[i].ToDomainMarket(); ok {
			markets = append(markets, m)
		}
	}
	return markets, nil
}

// Source identifies this adapter.
func (c *Client) Source() domain.Source { return domain.SourceKalshi }

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("kalshi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kalshi: %w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kalshi: read response: %w", domain.ErrSourceUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIErrorResponse
		_ = json.Unmarshal(body, &apiErr)
		return nil, fmt.Errorf("kalshi: HTTP %d: %s (%s): %w",
			resp.StatusCode, apiErr.Message, apiErr.Code, domain.ErrSourceUnavailable)
	}
	return body, nil
}
