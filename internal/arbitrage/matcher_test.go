package arbitrage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

var yearEnd = time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

func mkMarket(id string, source domain.Source, title string, cat domain.Category, end time.Time) domain.Market {
	return domain.Market{
		ID:       id,
		Source:   source,
		Title:    title,
		Category: cat,
		YesPrice: 0.5,
		NoPrice:  0.5,
		EndDate:  end,
	}
}

func TestMatcher_EquivalentQuestionsMatch(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will BTC hit $100k by Dec 31?", domain.CategoryCrypto, yearEnd),
		mkMarket("ka1", domain.SourceKalshi, "Bitcoin above $100,000 by end of year?", domain.CategoryCrypto, yearEnd),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, domain.SourcePolymarket, pairs[0].A.Source)
	assert.Equal(t, domain.SourceKalshi, pairs[0].B.Source)
	assert.Equal(t, NumericMatch, pairs[0].Numeric)
	assert.True(t, pairs[0].Strict(defaultStrictThreshold))
}

func TestMatcher_CrossCategoryNeverMatches(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	// Identical titles, different categories: never candidates.
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will the event happen by Friday?", domain.CategoryPolitics, yearEnd),
		mkMarket("ka1", domain.SourceKalshi, "Will the event happen by Friday?", domain.CategorySports, yearEnd),
	})
	assert.Empty(t, pairs)
}

func TestMatcher_SameSourceNeverMatches(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will BTC hit $100k?", domain.CategoryCrypto, yearEnd),
		mkMarket("pm2", domain.SourcePolymarket, "Will BTC hit $100k?", domain.CategoryCrypto, yearEnd),
	})
	assert.Empty(t, pairs)
}

func TestMatcher_EndDateWindowRejects(t *testing.T) {
	m := NewMatcher(MatcherConfig{EndDateWindow: 48 * time.Hour})
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will BTC hit $100k?", domain.CategoryCrypto, yearEnd),
		mkMarket("ka1", domain.SourceKalshi, "Will BTC hit $100k?", domain.CategoryCrypto, yearEnd.Add(-72*time.Hour)),
	})
	assert.Empty(t, pairs, "markets resolving 72h apart are not the same event")
}

func TestMatcher_NumericMismatchVetoesStrictOnly(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will Bitcoin go above $100k?", domain.CategoryCrypto, yearEnd),
		mkMarket("ka1", domain.SourceKalshi, "Will Bitcoin go above $200k?", domain.CategoryCrypto, yearEnd),
	})

	// Loose admission tolerates the bound mismatch; strict must not.
	require.Len(t, pairs, 1)
	assert.Equal(t, NumericMismatch, pairs[0].Numeric)
	assert.False(t, pairs[0].Strict(defaultStrictThreshold))
}

func TestMatcher_BestPairPerMarket(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will Bitcoin close above $100k on Dec 31?", domain.CategoryCrypto, yearEnd),
		mkMarket("ka1", domain.SourceKalshi, "Will Bitcoin close above $100k on Dec 31?", domain.CategoryCrypto, yearEnd),
		mkMarket("ka2", domain.SourceKalshi, "Bitcoin above $100k on Dec 31?", domain.CategoryCrypto, yearEnd),
	})

	// pm1 can pair with both Kalshi markets; only the top-scoring pairing
	// survives, so pm1 appears exactly once.
	require.Len(t, pairs, 1)
	assert.Equal(t, "pm1", pairs[0].A.ID)
	assert.Equal(t, "ka1", pairs[0].B.ID, "exact title duplicate outranks the paraphrase")
}

func TestMatcher_Deterministic(t *testing.T) {
	markets := []domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will BTC hit $100k by Dec 31?", domain.CategoryCrypto, yearEnd),
		mkMarket("ka1", domain.SourceKalshi, "Bitcoin above $100,000 by end of year?", domain.CategoryCrypto, yearEnd),
		mkMarket("pm2", domain.SourcePolymarket, "Will the Chiefs win the Super Bowl?", domain.CategorySports, yearEnd),
		mkMarket("ka2", domain.SourceKalshi, "Chiefs win Super Bowl?", domain.CategorySports, yearEnd),
	}

	m := NewMatcher(MatcherConfig{})
	first := m.Match(markets)

	// Same snapshot, shuffled input order: identical output.
	shuffled := []domain.Market{markets[3], markets[1], markets[2], markets[0]}
	second := m.Match(shuffled)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].A.ID, second[i].A.ID)
		assert.Equal(t, first[i].B.ID, second[i].B.ID)
		assert.InDelta(t, first[i].Score, second[i].Score, 1e-12)
	}
}

func TestMatcher_MissingEndDateBlocksStrict(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	pairs := m.Match([]domain.Market{
		mkMarket("pm1", domain.SourcePolymarket, "Will Bitcoin close above $100k on Dec 31?", domain.CategoryCrypto, time.Time{}),
		mkMarket("ka1", domain.SourceKalshi, "Will Bitcoin close above $100k on Dec 31?", domain.CategoryCrypto, yearEnd),
	})

	require.Len(t, pairs, 1)
	assert.False(t, pairs[0].DatesKnown)
	assert.False(t, pairs[0].Strict(defaultStrictThreshold), "strict requires every signal, including known dates")
}
