package arbitrage

import (
	"sort"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// Matcher tuning defaults. Threshold values are tunable parameters, not
// exact reproductions of any particular deployment.
const (
	defaultEndDateWindow   = 48 * time.Hour
	defaultLooseThreshold  = 0.40
	defaultStrictThreshold = 0.60

	weightTitle   = 0.55
	weightDate    = 0.25
	weightNumeric = 0.20
)

// MatcherConfig tunes candidate admission.
type MatcherConfig struct {
	// EndDateWindow is the maximum allowed gap between the two markets'
	// resolution dates. Pairs further apart are rejected outright.
	EndDateWindow time.Duration

	// LooseThreshold and StrictThreshold are the minimum combined scores
	// for candidate admission in the respective modes.
	LooseThreshold  float64
	StrictThreshold float64
}

func (c *MatcherConfig) applyDefaults() {
	if c.EndDateWindow <= 0 {
		c.EndDateWindow = defaultEndDateWindow
	}
	if c.LooseThreshold <= 0 {
		c.LooseThreshold = defaultLooseThreshold
	}
	if c.StrictThreshold <= 0 {
		c.StrictThreshold = defaultStrictThreshold
	}
}

// Pair is a candidate pairing of two markets from different sources that
// plausibly represent the same real-world question.
type Pair struct {
	A, B  domain.Market
	Score float64

	// Numeric records how the titles' numeric bounds relate; a mismatch
	// vetoes the pair in strict mode.
	Numeric NumericAgreement

	// DatesKnown is true when both markets carry a resolution date. Strict
	// mode requires agreement on every signal, which includes the dates
	// actually being present.
	DatesKnown bool
}

// Strict reports whether the pair meets strict-mode admission: combined
// score above the strict threshold with every signal in agreement.
func (p Pair) Strict(threshold float64) bool {
	return p.Score >= threshold && p.Numeric != NumericMismatch && p.DatesKnown
}

// Matcher pairs canonical markets across sources.
type Matcher struct {
	cfg MatcherConfig
}

// NewMatcher creates a Matcher, filling unset config fields with defaults.
func NewMatcher(cfg MatcherConfig) *Matcher {
	cfg.applyDefaults()
	return &Matcher{cfg: cfg}
}

// scored carries precomputed similarity inputs for one market.
type scored struct {
	market   domain.Market
	tokens   map[string]struct{}
	numerics map[float64]struct{}
}

// Match produces candidate pairs from the normalized snapshot. Markets are
// partitioned by category first; cross-category pairs are never candidates.
// Admission uses the loose threshold: strict mode is applied downstream as a
// pure filter over the loose candidate set, which guarantees strict output
// is always a subset of loose output for the same snapshot.
//
// Each market participates in at most one returned pair: candidates are
// ranked by score and greedily selected, so the highest-scoring pairing per
// market wins.
func (m *Matcher) Match(markets []domain.Market) []Pair {
	byCategory := make(map[domain.Category][]scored)
	for _, mk := range markets {
		byCategory[mk.Category] = append(byCategory[mk.Category], scored{
			market:   mk,
			tokens:   Tokenize(mk.Title),
			numerics: NumericEntities(mk.Title),
		})
	}

	var candidates []Pair
	for _, group := range byCategory {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.market.Source == b.market.Source {
					continue
				}
				if pair, ok := m.score(a, b); ok {
					candidates = append(candidates, pair)
				}
			}
		}
	}

	// Rank candidates best-first; ties broken on market IDs so identical
	// snapshots always produce identical output.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].A.ID != candidates[j].A.ID {
			return candidates[i].A.ID < candidates[j].A.ID
		}
		return candidates[i].B.ID < candidates[j].B.ID
	})

	used := make(map[string]struct{})
	var pairs []Pair
	for _, cand := range candidates {
		ka := marketKey(cand.A)
		kb := marketKey(cand.B)
		if _, taken := used[ka]; taken {
			continue
		}
		if _, taken := used[kb]; taken {
			continue
		}
		used[ka] = struct{}{}
		used[kb] = struct{}{}
		pairs = append(pairs, cand)
	}
	return pairs
}

// score computes the combined similarity score for one cross-source pair and
// reports whether it clears the loose admission threshold.
func (m *Matcher) score(a, b scored) (Pair, bool) {
	datesKnown := !a.market.EndDate.IsZero() && !b.market.EndDate.IsZero()
	dateScore := 0.5 // neutral when a resolution date is missing
	if datesKnown {
		delta := a.market.EndDate.Sub(b.market.EndDate)
		if delta < 0 {
			delta = -delta
		}
		if delta > m.cfg.EndDateWindow {
			// Markets resolving far apart are not the same event no
			// matter how similar the text is.
			return Pair{}, false
		}
		frac := float64(delta) / float64(m.cfg.EndDateWindow)
		dateScore = 1 - frac*frac
	}

	numeric := CompareNumerics(a.numerics, b.numerics)
	numericScore := 0.5
	switch numeric {
	case NumericMatch:
		numericScore = 1
	case NumericMismatch:
		numericScore = 0
	}

	titleScore := TitleSimilarity(a.tokens, b.tokens)

	score := weightTitle*titleScore + weightDate*dateScore + weightNumeric*numericScore
	if score < m.cfg.LooseThreshold {
		return Pair{}, false
	}

	// Canonical pair ordering: market1 takes the source that appears first
	// in domain.Sources (stable regardless of input order).
	m1, m2 := a.market, b.market
	if sourceRank(m2.Source) < sourceRank(m1.Source) {
		m1, m2 = m2, m1
	}

	return Pair{
		A:          m1,
		B:          m2,
		Score:      score,
		Numeric:    numeric,
		DatesKnown: datesKnown,
	}, true
}

// StrictThreshold exposes the configured strict admission score for the
// downstream mode filter.
func (m *Matcher) StrictThreshold() float64 {
	return m.cfg.StrictThreshold
}

func marketKey(m domain.Market) string {
	return string(m.Source) + ":" + m.ID
}

func sourceRank(s domain.Source) int {
	for i, known := range domain.Sources {
		if known == s {
			return i
		}
	}
	return len(domain.Sources)
}
