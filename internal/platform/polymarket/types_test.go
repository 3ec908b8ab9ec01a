package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexBool(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"TRUE"`, true},
		{`"false"`, false},
		{`"1"`, true},
		{`"0"`, false},
	}
	for _, tc := range cases {
		var f flexBool
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, bool(f), tc.raw)
	}
}

func TestFlexFloat(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`1234.5`, 1234.5},
		{`"1234.5"`, 1234.5},
		{`""`, 0},
		{`0`, 0},
	}
	for _, tc := range cases {
		var f flexFloat
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, float64(f), tc.raw)
	}

	var f flexFloat
	assert.Error(t, json.Unmarshal([]byte(`"not a number"`), &f))
}

func TestOutcomePairReversedOrdering(t *testing.T) {
	m := APIMarket{
		Outcomes:      `["No","Yes"]`,
		OutcomePrices: `["0.6","0.4"]`,
	}

	yes, no, ok := m.outcomePair()
	require.True(t, ok)
	assert.Equal(t, 0.4, yes)
	assert.Equal(t, 0.6, no)
}

func TestOutcomePairRejectsNonBinary(t *testing.T) {
	m := APIMarket{
		Outcomes:      `["Up","Down"]`,
		OutcomePrices: `["0.5","0.5"]`,
	}

	_, _, ok := m.outcomePair()
	assert.False(t, ok, "only yes/no outcome labels are binary markets")
}

func TestToDomainPositionClosedUsesRealizedPnL(t *testing.T) {
	raw := `{
		"conditionId": "0xc1",
		"title": "Will BTC hit 100k?",
		"outcome": "yes",
		"size": 200,
		"avgPrice": "0.40",
		"curPrice": "0.65",
		"currentValue": 130,
		"cashPnl": 50,
		"realizedPnl": 75
	}`
	var p APIPosition
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	open := p.ToDomainPosition(false)
	assert.Equal(t, "YES", open.Outcome)
	assert.Equal(t, 50.0, open.PnL)
	assert.False(t, open.Closed)

	closed := p.ToDomainPosition(true)
	assert.Equal(t, 75.0, closed.PnL, "closed positions report realized pnl")
	assert.True(t, closed.Closed)
}
