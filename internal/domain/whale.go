package domain

// WhaleAlert is a single large-trade notification. Alerts are identified by
// ID for deduplication and ordered by Timestamp (Unix seconds, newest first
// on read).
type WhaleAlert struct {
	ID          string  `json:"id"`
	Timestamp   int64   `json:"timestamp"`
	Wallet      string  `json:"wallet"`
	MarketID    string  `json:"marketId"`
	MarketTitle string  `json:"marketTitle"`
	Outcome     string  `json:"outcome"` // "YES" or "NO"
	Side        string  `json:"side"`    // "BUY" or "SELL"
	Price       float64 `json:"price"`
	Shares      float64 `json:"shares"`
	AmountUSD   float64 `json:"amountUSD"`
	Image       string  `json:"image,omitempty"`
}

// WhaleAlertPage is a paginated, newest-first slice of the alert log.
type WhaleAlertPage struct {
	Alerts  []WhaleAlert `json:"alerts"`
	Total   int64        `json:"total"`
	HasMore bool         `json:"hasMore"`
}
