package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number or a numeric string. Gamma sends
// volume and liquidity both ways depending on the endpoint.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(n)
	return nil
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// APIEvent represents an event as returned by the Polymarket Gamma API.
// An event groups one or more related markets and carries the display
// metadata (category tags, image, slug) the markets inherit.
type APIEvent struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Slug    string      `json:"slug"`
	Active  flexBool    `json:"active"`
	Closed  bool        `json:"closed"`
	Image   string      `json:"image"`
	Volume  flexFloat   `json:"volume"`
	Tags    []APITag    `json:"tags"`
	Markets []APIMarket `json:"markets"`
}

// APITag is a Gamma category tag attached to an event.
type APITag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// APIMarket represents a market nested inside a Gamma event.
type APIMarket struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Slug          string    `json:"slug"`
	Active        flexBool  `json:"active"`
	Closed        bool      `json:"closed"`
	Outcomes      string    `json:"outcomes"`      // JSON-encoded: e.g. "[\"Yes\",\"No\"]"
	OutcomePrices string    `json:"outcomePrices"` // JSON-encoded: e.g. "[\"0.4\",\"0.6\"]"
	Volume        flexFloat `json:"volumeNum"`
	Liquidity     flexFloat `json:"liquidityNum"`
	EndDate       string    `json:"endDate"` // RFC3339
	Image         string    `json:"image"`
}

// outcomePair decodes the JSON-string-encoded outcomes/prices arrays and
// returns the YES and NO prices. ok is false for non-binary markets or
// undecodable payloads.
func (m *APIMarket) outcomePair() (yes, no float64, ok bool) {
	var outcomes []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil || len(outcomes) != 2 {
		return 0, 0, false
	}
	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil || len(prices) != 2 {
		return 0, 0, false
	}

	vals := [2]float64{}
	for i, p := range prices {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, 0, false
		}
		vals[i] = v
	}

	// Gamma orders outcomes ["Yes","No"] for binary markets, but be
	// defensive about the reverse ordering.
	if strings.EqualFold(outcomes[0], "no") && strings.EqualFold(outcomes[1], "yes") {
		return vals[1], vals[0], true
	}
	if !strings.EqualFold(outcomes[0], "yes") || !strings.EqualFold(outcomes[1], "no") {
		return 0, 0, false
	}
	return vals[0], vals[1], true
}

// ToDomainMarket converts a Gamma market (with its parent event's metadata)
// to the canonical domain.Market. ok is false when the market is not an
// active binary market.
func (m *APIMarket) ToDomainMarket(event *APIEvent) (domain.Market, bool) {
	if m.Closed || !bool(m.Active) {
		return domain.Market{}, false
	}
	yes, no, ok := m.outcomePair()
	if !ok {
		return domain.Market{}, false
	}

	title := m.Question
	if title == "" {
		title = event.Title
	}

	image := m.Image
	if image == "" {
		image = event.Image
	}

	out := domain.Market{
		ID:        m.ID,
		Source:    domain.SourcePolymarket,
		Title:     title,
		Category:  eventCategory(event),
		YesPrice:  yes,
		NoPrice:   no,
		Volume:    float64(m.Volume),
		Liquidity: float64(m.Liquidity),
		Image:     image,
		URL:       "https://polymarket.com/event/" + event.Slug,
	}
	if t, err := time.Parse(time.RFC3339, m.EndDate); err == nil {
		out.EndDate = t
	}
	return out, true
}

// eventCategory maps the first recognizable Gamma tag onto the shared
// taxonomy, falling back to Other.
func eventCategory(event *APIEvent) domain.Category {
	for _, tag := range event.Tags {
		if c := domain.CanonicalCategory(tag.Label); c != domain.CategoryOther {
			return c
		}
	}
	return domain.CategoryOther
}

// --------------------------------------------------------------------------
// Data API DTOs
// --------------------------------------------------------------------------

// APILeaderboardEntry is one row returned by the Data API leaderboard.
type APILeaderboardEntry struct {
	Wallet      string    `json:"proxyWallet"`
	UserName    string    `json:"userName"`
	Profit      flexFloat `json:"pnl"`
	Volume      flexFloat `json:"vol"`
	ProfileImg  string    `json:"profileImage"`
}

// APIPosition is one position row from the Data API positions endpoints.
type APIPosition struct {
	Asset        string    `json:"asset"`
	ConditionID  string    `json:"conditionId"`
	Title        string    `json:"title"`
	Outcome      string    `json:"outcome"`
	Size         flexFloat `json:"size"`
	AvgPrice     flexFloat `json:"avgPrice"`
	CurPrice     flexFloat `json:"curPrice"`
	CurrentValue flexFloat `json:"currentValue"`
	CashPnL      flexFloat `json:"cashPnl"`
	PercentPnL   flexFloat `json:"percentPnl"`
	RealizedPnL  flexFloat `json:"realizedPnl"`
	Redeemable   bool      `json:"redeemable"`
	Icon         string    `json:"icon"`
}

// ToDomainPosition converts a Data API position row.
func (p *APIPosition) ToDomainPosition(closed bool) domain.Position {
	pos := domain.Position{
		MarketID:     p.ConditionID,
		MarketTitle:  p.Title,
		Outcome:      strings.ToUpper(p.Outcome),
		Shares:       float64(p.Size),
		EntryPrice:   float64(p.AvgPrice),
		CurrentPrice: float64(p.CurPrice),
		Value:        float64(p.CurrentValue),
		PnL:          float64(p.CashPnL),
		PnLPercent:   float64(p.PercentPnL),
		Closed:       closed,
		Image:        p.Icon,
	}
	if closed {
		pos.PnL = float64(p.RealizedPnL)
	}
	return pos
}

// APIPnLPoint is one point of the user PnL timeline.
type APIPnLPoint struct {
	Timestamp int64     `json:"t"`
	Value     flexFloat `json:"p"`
}

// APIValue is the portfolio value row from the Data API.
type APIValue struct {
	User  string    `json:"user"`
	Value flexFloat `json:"value"`
}

// APITrade is one trade row from the Data API trades feed, used for whale
// detection.
type APITrade struct {
	TxHash      string    `json:"transactionHash"`
	Wallet      string    `json:"proxyWallet"`
	ConditionID string    `json:"conditionId"`
	Title       string    `json:"title"`
	Outcome     string    `json:"outcome"`
	Side        string    `json:"side"` // "BUY" or "SELL"
	Size        flexFloat `json:"size"`
	Price       flexFloat `json:"price"`
	Timestamp   int64     `json:"timestamp"`
	Icon        string    `json:"icon"`
}
