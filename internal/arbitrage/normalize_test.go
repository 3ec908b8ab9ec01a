package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hawkolabs/hawko/internal/domain"
)

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Will BTC hit $100k? | Polymarket", "Will BTC hit $100k?"},
		{"Fed cuts rates in March - Kalshi", "Fed cuts rates in March"},
		{"**Will** _ETH_ `flip` BTC?", "Will ETH flip BTC?"},
		{"[Read more](https://example.com) Will it rain?", "Read more Will it rain?"},
		{"  spaced   out   title  ", "spaced out title"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanTitle(tc.in), "input %q", tc.in)
	}
}

func TestNormalize_DropsMalformedQuotes(t *testing.T) {
	markets := []domain.Market{
		{ID: "ok", Source: domain.SourcePolymarket, Title: "Valid", Category: domain.CategoryCrypto, YesPrice: 0.40, NoPrice: 0.60},
		{ID: "tolerated", Source: domain.SourcePolymarket, Title: "Slightly off", Category: domain.CategoryCrypto, YesPrice: 0.40, NoPrice: 0.61},
		{ID: "broken", Source: domain.SourceKalshi, Title: "Way off", Category: domain.CategoryCrypto, YesPrice: 0.40, NoPrice: 0.40},
		{ID: "untitled", Source: domain.SourceKalshi, Title: "  ", Category: domain.CategoryCrypto, YesPrice: 0.50, NoPrice: 0.50},
	}

	out := Normalize(markets, 0.02)

	ids := make([]string, 0, len(out))
	for _, m := range out {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"ok", "tolerated"}, ids)
}

func TestNormalize_ClampsPrices(t *testing.T) {
	out := Normalize([]domain.Market{
		{ID: "m", Title: "Clamped", YesPrice: 1.01, NoPrice: -0.01, Volume: -5},
	}, 0.02)

	// 1.01 clamps to 1.0, -0.01 clamps to 0: sum is exactly 1.
	assert.Len(t, out, 1)
	assert.Equal(t, 1.0, out[0].YesPrice)
	assert.Equal(t, 0.0, out[0].NoPrice)
	assert.Equal(t, 0.0, out[0].Volume)
	assert.Equal(t, domain.CategoryOther, out[0].Category)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := []domain.Market{{ID: "m", Title: "x | Polymarket", YesPrice: 0.5, NoPrice: 0.5}}
	Normalize(in, 0.02)
	assert.Equal(t, "x | Polymarket", in[0].Title)
}
