package kalshi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

func TestFetchActiveMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"markets": [
				{
					"ticker": "FED-26SEP",
					"event_ticker": "FED",
					"title": "Fed cuts rates in September?",
					"status": "active",
					"yes_bid": 40, "yes_ask": 44,
					"no_bid": 56, "no_ask": 60,
					"volume": 120000,
					"liquidity": 500000,
					"category": "Economics",
					"close_time": "2026-09-18T18:00:00Z"
				},
				{
					"ticker": "GONE-25",
					"title": "Already settled",
					"status": "settled",
					"yes_bid": 99, "yes_ask": 100
				},
				{
					"ticker": "EMPTY-26",
					"title": "No resting orders",
					"status": "active"
				}
			],
			"cursor": ""
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	markets, err := c.FetchActiveMarkets(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, markets, 1, "settled and quoteless markets are excluded")

	m := markets[0]
	assert.Equal(t, "FED-26SEP", m.ID)
	assert.Equal(t, domain.SourceKalshi, m.Source)
	assert.Equal(t, domain.CategoryBusiness, m.Category)
	assert.InDelta(t, 0.42, m.YesPrice, 1e-9)
	assert.InDelta(t, 0.58, m.NoPrice, 1e-9)
	assert.Equal(t, float64(120000), m.Volume)
	assert.InDelta(t, 5000, m.Liquidity, 1e-9)
	assert.Equal(t, "https://kalshi.com/markets/FED", m.URL)
	assert.Equal(t, time.Date(2026, 9, 18, 18, 0, 0, 0, time.UTC), m.EndDate)
}

func TestFetchActiveMarketsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"service_unavailable","message":"maintenance"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchActiveMarkets(context.Background(), 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestToDomainMarketOneSidedQuote(t *testing.T) {
	m := APIMarket{
		Ticker: "ONESIDE",
		Title:  "Only yes side quoted",
		Status: "active",
		YesBid: 30,
		YesAsk: 34,
	}

	out, ok := m.ToDomainMarket()
	require.True(t, ok)
	assert.InDelta(t, 0.32, out.YesPrice, 1e-9)
	assert.InDelta(t, 0.68, out.NoPrice, 1e-9, "missing no side is complemented")
}

func TestToDomainMarketSubtitleJoinsTitle(t *testing.T) {
	m := APIMarket{
		Ticker:   "T",
		Title:    "High temp in NYC",
		Subtitle: "above 90F",
		Status:   "active",
		YesBid:   10,
		YesAsk:   12,
		NoBid:    88,
		NoAsk:    90,
	}

	out, ok := m.ToDomainMarket()
	require.True(t, ok)
	assert.Equal(t, "High temp in NYC above 90F", out.Title)
}
