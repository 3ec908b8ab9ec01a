package kalshi

import (
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// APIMarket represents a market as returned by the Kalshi REST API.
// Prices are quoted in cents (1-99).
type APIMarket struct {
	Ticker         string  `json:"ticker"`
	EventTicker    string  `json:"event_ticker"`
	Title          string  `json:"title"`
	Subtitle       string  `json:"subtitle"`
	Status         string  `json:"status"` // "active", "closed", "settled"
	YesBid         float64 `json:"yes_bid"`
	YesAsk         float64 `json:"yes_ask"`
	NoBid          float64 `json:"no_bid"`
	NoAsk          float64 `json:"no_ask"`
	LastPrice      float64 `json:"last_price"`
	Volume         int64   `json:"volume"`
	Volume24H      int64   `json:"volume_24h"`
	Liquidity      float64 `json:"liquidity"`
	OpenInterest   int64   `json:"open_interest"`
	Category       string  `json:"category"`
	ExpirationTime string  `json:"expiration_time"`
	CloseTime      string  `json:"close_time"`
	Result         string  `json:"result"` // "yes", "no", "" (unsettled)
}

// APIErrorResponse represents a Kalshi API error body.
type APIErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToDomainMarket converts a Kalshi market to the canonical domain.Market.
// ok is false for markets that are not currently tradable or have no quote.
func (m *APIMarket) ToDomainMarket() (domain.Market, bool) {
	if m.Status != "active" && m.Status != "open" {
		return domain.Market{}, false
	}

	// Mid prices in probability space. A market with no resting orders on
	// either side has no usable quote.
	yes := midProb(m.YesBid, m.YesAsk)
	no := midProb(m.NoBid, m.NoAsk)
	if yes == 0 && no == 0 {
		return domain.Market{}, false
	}
	if yes == 0 {
		yes = 1 - no
	}
	if no == 0 {
		no = 1 - yes
	}

	title := m.Title
	if m.Subtitle != "" {
		title += " " + m.Subtitle
	}

	out := domain.Market{
		ID:        m.Ticker,
		Source:    domain.SourceKalshi,
		Title:     title,
		Category:  domain.CanonicalCategory(m.Category),
		YesPrice:  yes,
		NoPrice:   no,
		Volume:    float64(m.Volume),
		Liquidity: m.Liquidity / 100, // cents to dollars
		URL:       "https://kalshi.com/markets/" + m.EventTicker,
	}
	for _, raw := range []string{m.CloseTime, m.ExpirationTime} {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			out.EndDate = t
			break
		}
	}
	return out, true
}

// midProb converts a cent-quoted bid/ask pair to a mid probability in [0,1].
func midProb(bid, ask float64) float64 {
	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2 / 100
	case ask > 0:
		return ask / 100
	case bid > 0:
		return bid / 100
	default:
		return 0
	}
}
