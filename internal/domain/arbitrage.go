package domain

import "time"

// Mode is the confidence tier used when matching markets across exchanges.
type Mode string

const (
	// ModeStrict admits only high-confidence matches with an economically
	// meaningful spread. Intended for automated consumption.
	ModeStrict Mode = "strict"

	// ModeLoose admits lower-confidence matches and near-zero spreads.
	// Intended for exploratory or manual review.
	ModeLoose Mode = "loose"
)

// ParseMode returns the Mode for s, defaulting to ModeStrict for anything
// unrecognized.
func ParseMode(s string) Mode {
	if s == string(ModeLoose) {
		return ModeLoose
	}
	return ModeStrict
}

// ArbitrageOpportunity is a matched pair of markets, one per exchange, whose
// combined pricing guarantees a profit regardless of outcome. Opportunities
// are immutable value objects constructed fresh on every scan; there is no
// persistent identity across scans.
type ArbitrageOpportunity struct {
	Event   string  `json:"event"`
	Market1 Market  `json:"market1"`
	Market2 Market  `json:"market2"`
	Spread  float64 `json:"spread"` // percent profit of the better direction
	Mode    Mode    `json:"mode"`
}

// CombinedVolume is the ranking tie-breaker: opportunities with more
// executable liquidity sort first among equal spreads.
func (o ArbitrageOpportunity) CombinedVolume() float64 {
	return o.Market1.Volume + o.Market2.Volume
}

// Scan records the outcome of one full arbitrage scan for history and
// dashboard display. The engine itself never persists these; the scan
// service does.
type Scan struct {
	ID            string                 `json:"id"`
	Mode          Mode                   `json:"mode"`
	StartedAt     time.Time              `json:"startedAt"`
	Duration      time.Duration          `json:"duration"`
	FailedSources []Source               `json:"failedSources,omitempty"`
	Opportunities []ArbitrageOpportunity `json:"opportunities"`
}

// Degraded reports whether at least one source failed during the scan.
func (s Scan) Degraded() bool {
	return len(s.FailedSources) > 0
}
