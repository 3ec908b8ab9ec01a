package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_SynonymsAndNumbers(t *testing.T) {
	set := Tokenize("Will BTC hit $100k by Dec 31?")

	assert.Contains(t, set, "bitcoin") // btc canonicalized
	assert.Contains(t, set, "above")   // hit canonicalized
	assert.Contains(t, set, "100000")  // $100k expanded
	assert.Contains(t, set, "december")
	assert.NotContains(t, set, "will") // stopword
	assert.NotContains(t, set, "by")
}

func TestNumericEntities(t *testing.T) {
	cases := []struct {
		title string
		want  float64
	}{
		{"Bitcoin above $100,000 by end of year?", 100_000},
		{"Will BTC hit $100k?", 100_000},
		{"ETH to $5k", 5_000},
		{"Market cap over $2b", 2_000_000_000},
	}
	for _, tc := range cases {
		set := NumericEntities(tc.title)
		assert.Contains(t, set, tc.want, "title %q", tc.title)
	}

	assert.Empty(t, NumericEntities("Will it rain tomorrow?"))
}

func TestTitleSimilarity(t *testing.T) {
	a := Tokenize("Will BTC hit $100k by Dec 31?")
	b := Tokenize("Bitcoin above $100,000 by end of year?")

	sim := TitleSimilarity(a, b)
	assert.Greater(t, sim, 0.5, "equivalent questions should score well above half")

	unrelated := Tokenize("Will the Lakers win the NBA finals?")
	assert.Less(t, TitleSimilarity(a, unrelated), 0.2)

	assert.Equal(t, 0.0, TitleSimilarity(a, map[string]struct{}{}))
}

func TestCompareNumerics(t *testing.T) {
	n100k := NumericEntities("$100k")
	n100kFull := NumericEntities("$100,000")
	n200k := NumericEntities("$200k")
	none := NumericEntities("no numbers here")

	assert.Equal(t, NumericMatch, CompareNumerics(n100k, n100kFull))
	assert.Equal(t, NumericMismatch, CompareNumerics(n100k, n200k))
	assert.Equal(t, NumericNeutral, CompareNumerics(n100k, none))
	assert.Equal(t, NumericNeutral, CompareNumerics(none, none))
}
