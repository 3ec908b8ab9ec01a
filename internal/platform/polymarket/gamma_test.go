package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

func TestGammaFetchActiveMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("active"))
		assert.Equal(t, "false", q.Get("closed"))
		assert.Equal(t, "volume24hr", q.Get("order"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "ev1",
				"title": "Fed decision",
				"slug": "fed-decision",
				"active": "true",
				"closed": false,
				"image": "https://img/fed.png",
				"tags": [{"label": "Economy"}, {"label": "Fed"}],
				"markets": [
					{
						"id": "m1",
						"question": "Fed cuts rates in September?",
						"active": true,
						"closed": false,
						"outcomes": "[\"Yes\",\"No\"]",
						"outcomePrices": "[\"0.43\",\"0.57\"]",
						"volumeNum": "250000.5",
						"liquidityNum": 80000,
						"endDate": "2026-09-18T18:00:00Z"
					},
					{
						"id": "m2",
						"question": "Three-way outcome",
						"active": true,
						"closed": false,
						"outcomes": "[\"A\",\"B\",\"C\"]",
						"outcomePrices": "[\"0.3\",\"0.3\",\"0.4\"]"
					}
				]
			},
			{
				"id": "ev2",
				"title": "Closed event",
				"active": true,
				"closed": true,
				"markets": []
			}
		]`))
	}))
	defer srv.Close()

	c := NewGammaClient(srv.URL)
	markets, err := c.FetchActiveMarkets(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, markets, 1, "non-binary markets and closed events are excluded")

	m := markets[0]
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, domain.SourcePolymarket, m.Source)
	assert.Equal(t, "Fed cuts rates in September?", m.Title)
	assert.Equal(t, domain.CategoryBusiness, m.Category, "category comes from the event tags")
	assert.InDelta(t, 0.43, m.YesPrice, 1e-9)
	assert.InDelta(t, 0.57, m.NoPrice, 1e-9)
	assert.InDelta(t, 250000.5, m.Volume, 1e-9, "stringified volume is parsed")
	assert.Equal(t, "https://img/fed.png", m.Image, "market inherits the event image")
	assert.Equal(t, "https://polymarket.com/event/fed-decision", m.URL)
}

func TestGammaFetchActiveMarketsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewGammaClient(srv.URL)
	_, err := c.FetchActiveMarkets(context.Background(), 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
