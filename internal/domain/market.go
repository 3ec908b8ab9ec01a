package domain

import "time"

// Source identifies the exchange a market was fetched from.
type Source string

const (
	SourcePolymarket Source = "polymarket"
	SourceKalshi     Source = "kalshi"
)

// Sources lists every exchange the scanner knows how to fetch.
var Sources = []Source{SourcePolymarket, SourceKalshi}

// Category is the shared topic taxonomy that all sources are mapped onto.
type Category string

const (
	CategoryPolitics   Category = "Politics"
	CategoryCrypto     Category = "Crypto"
	CategorySports     Category = "Sports"
	CategoryBusiness   Category = "Business"
	CategoryScience    Category = "Science"
	CategoryPopCulture Category = "Pop Culture"
	CategoryOther      Category = "Other"
)

// Market is the canonical, source-independent view of a binary prediction
// market. Every adapter converts its exchange-specific schema into this
// shape; nothing downstream of the adapters sees raw exchange fields.
type Market struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	YesPrice  float64   `json:"yesPrice"`
	NoPrice   float64   `json:"noPrice"`
	Volume    float64   `json:"volume"`
	Liquidity float64   `json:"liquidity"`
	EndDate   time.Time `json:"endDate"`

	// Display-only metadata for the dashboard feed. Never used by the
	// arbitrage engine.
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
}

// CanonicalCategory maps a source-specific category label onto the shared
// taxonomy. Unknown labels fall back to CategoryOther rather than failing.
func CanonicalCategory(raw string) Category {
	switch normalizeCategoryKey(raw) {
	case "politics", "elections", "election", "world", "geopolitics", "politicalevents":
		return CategoryPolitics
	case "crypto", "cryptocurrency", "cryptocurrencies", "bitcoin", "digitalassets":
		return CategoryCrypto
	case "sports", "sport", "nfl", "nba", "mlb", "soccer", "football":
		return CategorySports
	case "business", "economics", "economy", "finance", "financials", "companies", "fed":
		return CategoryBusiness
	case "science", "sciencetech", "technology", "tech", "climate", "climateandweather", "health", "space":
		return CategoryScience
	case "popculture", "culture", "entertainment", "music", "movies", "celebrities", "awards":
		return CategoryPopCulture
	default:
		return CategoryOther
	}
}

func normalizeCategoryKey(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		}
	}
	return string(out)
}
