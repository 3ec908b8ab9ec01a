package arbitrage

import (
	"regexp"
	"strings"

	"github.com/hawkolabs/hawko/internal/domain"
)

// defaultPriceTolerance is the maximum allowed deviation of yes+no from 1.0
// before a quote is considered malformed and dropped.
const defaultPriceTolerance = 0.02

var (
	// platformTagRe strips trailing exchange branding from titles, e.g.
	// "Will X happen? | Polymarket" or "Will X happen? - Kalshi".
	platformTagRe = regexp.MustCompile(`(?i)\s*[|\-–]\s*(polymarket|kalshi)\s*$`)

	// markdownRe removes markdown emphasis and link syntax.
	markdownRe = regexp.MustCompile("[*_`#]|\\[([^\\]]*)\\]\\([^)]*\\)")

	// spaceRe collapses runs of whitespace.
	spaceRe = regexp.MustCompile(`\s+`)
)

// CleanTitle strips exchange-specific formatting from a market title so that
// text similarity is computed over the bare question.
func CleanTitle(title string) string {
	s := platformTagRe.ReplaceAllString(title, "")
	s = markdownRe.ReplaceAllString(s, "$1")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalize validates and cleans a batch of canonical markets. Records with
// prices outside [0,1] are clamped; records whose yes+no deviates from 1.0
// by more than tolerance are discarded rather than silently coerced, as are
// records without a title. The input slice is not modified.
func Normalize(markets []domain.Market, tolerance float64) []domain.Market {
	if tolerance <= 0 {
		tolerance = defaultPriceTolerance
	}

	out := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		m.YesPrice = clamp01(m.YesPrice)
		m.NoPrice = clamp01(m.NoPrice)

		sum := m.YesPrice + m.NoPrice
		if sum < 1-tolerance || sum > 1+tolerance {
			continue
		}

		m.Title = CleanTitle(m.Title)
		if m.Title == "" {
			continue
		}
		if m.Category == "" {
			m.Category = domain.CategoryOther
		}
		if m.Volume < 0 {
			m.Volume = 0
		}
		if m.Liquidity < 0 {
			m.Liquidity = 0
		}

		out = append(out, m)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
