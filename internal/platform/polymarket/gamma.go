// Package polymarket provides REST clients for the Polymarket Gamma API
// (market discovery) and Data API (leaderboard, positions, trades).
package polymarket

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

// GammaClient is the REST client for the Polymarket Gamma API.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
func NewGammaClient(baseURL string) *GammaClient {
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchActiveMarkets returns the currently active binary markets, ordered by
// 24h volume. Closed, settled, and non-binary markets are excluded. A non-2xx
// response or undecodable payload is reported as domain.ErrSourceUnavailable.
func (g *GammaClient) FetchActiveMarkets(ctx context.Context, limit int) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("order", "volume24hr")
	params.Set("ascending", "false")

	body, err := g.doGet(ctx, "/events?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var events []APIEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode events: %w", domain.ErrSourceUnavailable)
	}

	var markets []domain.Market
	for i := range events {
		event := &events[i]
		if event.Closed || !bool(event.Active) {
			continue
		}
		for j := range event.Markets {
			if m, ok := event.Markets[j].ToDomainMarket(event); ok {
				markets = append(markets, m)
			}
		}
	}
	return markets, nil
}

// Source identifies this adapter.
func (g *GammaClient) Source() domain.Source { return domain.SourcePolymarket }

func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: %w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: read response: %w", domain.ErrSourceUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("polymarket/gamma: HTTP %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
	}
	return body, nil
}
