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

// DataClient is the REST client for the Polymarket Data API, which serves
// wallet analytics, the trader leaderboard, and the public trades feed.
type DataClient struct {
	baseURL    string // e.g. "https://data-api.polymarket.com"
	pnlBaseURL string // e.g. "https://user-pnl-api.polymarket.com"
	httpClient *http.Client
}

// NewDataClient creates a new Data API client.
func NewDataClient(baseURL, pnlBaseURL string) *DataClient {
	return &DataClient{
		baseURL:    baseURL,
		pnlBaseURL: pnlBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Leaderboard returns the top traders for the given period ("day", "week",
// "month", "all") and optional category filter.
func (d *DataClient) Leaderboard(ctx context.Context, period string, limit int, category string) ([]domain.LeaderboardEntry, error) {
	params := url.Values{}
	params.Set("timePeriod", period)
	params.Set("limit", strconv.Itoa(limit))
	if category != "" && category != "All" {
		params.Set("category", category)
	}

	body, err := d.doGet(ctx, d.baseURL+"/v1/leaderboard?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var rows []APILeaderboardEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:      i + 1,
			Address:   row.Wallet,
			Username:  row.UserName,
			Profit:    float64(row.Profit),
			Volume:    float64(row.Volume),
			AvatarURL: row.ProfileImg,
		})
	}
	return entries, nil
}

// WalletStats returns the leaderboard summary row for a single wallet, or a
// zero row when the wallet has no recorded activity.
func (d *DataClient) WalletStats(ctx context.Context, address string) (APILeaderboardEntry, error) {
	params := url.Values{}
	params.Set("timePeriod", "all")
	params.Set("user", address)

	body, err := d.doGet(ctx, d.baseURL+"/v1/leaderboard?"+params.Encode())
	if err != nil {
		return APILeaderboardEntry{}, err
	}

	var rows []APILeaderboardEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return APILeaderboardEntry{}, fmt.Errorf("polymarket/data: decode wallet stats: %w", err)
	}
	if len(rows) == 0 {
		return APILeaderboardEntry{}, nil
	}
	return rows[0], nil
}

// OpenPositions returns a wallet's open positions sorted by current value.
func (d *DataClient) OpenPositions(ctx context.Context, address string) ([]domain.Position, error) {
	params := url.Values{}
	params.Set("user", address)
	params.Set("sortBy", "CURRENT")
	params.Set("sortDirection", "DESC")
	params.Set("sizeThreshold", ".1")
	params.Set("limit", "500")

	body, err := d.doGet(ctx, d.baseURL+"/positions?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return decodePositions(body, false)
}

// ClosedPositions returns a wallet's closed positions sorted by realized PnL.
func (d *DataClient) ClosedPositions(ctx context.Context, address string) ([]domain.Position, error) {
	params := url.Values{}
	params.Set("user", address)
	params.Set("sortBy", "realizedpnl")
	params.Set("sortDirection", "DESC")
	params.Set("limit", "100")

	body, err := d.doGet(ctx, d.baseURL+"/closed-positions?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return decodePositions(body, true)
}

// PortfolioValue returns the current total value of a wallet's positions.
func (d *DataClient) PortfolioValue(ctx context.Context, address string) (float64, error) {
	body, err := d.doGet(ctx, d.baseURL+"/value?user="+url.QueryEscape(address))
	if err != nil {
		return 0, err
	}

	var rows []APIValue
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("polymarket/data: decode value: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return float64(rows[0].Value), nil
}

// PnLHistory returns the wallet's cumulative PnL timeline at daily fidelity.
func (d *DataClient) PnLHistory(ctx context.Context, address string) ([]domain.PnLPoint, error) {
	params := url.Values{}
	params.Set("user_address", address)
	params.Set("interval", "all")
	params.Set("fidelity", "1d")

	body, err := d.doGet(ctx, d.pnlBaseURL+"/user-pnl?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var rows []APIPnLPoint
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode pnl history: %w", err)
	}

	points := make([]domain.PnLPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.PnLPoint{Timestamp: row.Timestamp, Value: float64(row.Value)})
	}
	return points, nil
}

// RecentTrades returns the most recent trades with a notional of at least
// minAmountUSD. Used by the whale-alert detector.
func (d *DataClient) RecentTrades(ctx context.Context, limit int, minAmountUSD float64) ([]APITrade, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("takerOnly", "true")
	if minAmountUSD > 0 {
		params.Set("filterType", "CASH")
		params.Set("filterAmount", strconv.FormatFloat(minAmountUSD, 'f', -1, 64))
	}

	body, err := d.doGet(ctx, d.baseURL+"/trades?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var trades []APITrade
	if err := json.Unmarshal(body, &trades); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode trades: %w", err)
	}
	return trades, nil
}

func decodePositions(body []byte, closed bool) ([]domain.Position, error) {
	var rows []APIPosition
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode positions: %w", err)
	}
	positions := make([]domain.Position, 0, len(rows))
	for i := range rows {
		positions = append(positions, rows[i].ToDomainPosition(closed))
	}
	return positions, nil
}

func (d *DataClient) doGet(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("polymarket/data: HTTP %d", resp.StatusCode)
	}
	return body, nil
}
