package domain

// Position is one open or closed position held by a wallet, as reported by
// the exchange data API.
type Position struct {
	MarketID     string  `json:"marketId"`
	MarketTitle  string  `json:"marketTitle"`
	Outcome      string  `json:"outcome"` // "YES" or "NO"
	Shares       float64 `json:"shares"`
	EntryPrice   float64 `json:"entryPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	Value        float64 `json:"value"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnlPercent"`
	Closed       bool    `json:"closed"`
	Image        string  `json:"image,omitempty"`
}

// PnLPoint is one sample of a wallet's cumulative profit-and-loss timeline.
type PnLPoint struct {
	Timestamp int64   `json:"t"`
	Value     float64 `json:"p"`
}

// WalletStats is the pure arithmetic reduction over a wallet's positions.
type WalletStats struct {
	Address         string  `json:"address"`
	TotalPnL        float64 `json:"totalPnL"`
	RealizedPnL     float64 `json:"realizedPnL"`
	UnrealizedPnL   float64 `json:"unrealizedPnL"`
	WinRate         float64 `json:"winRate"` // percent of closed positions in profit
	TotalVolume     float64 `json:"totalVolume"`
	AvgBetSize      float64 `json:"avgBetSize"`
	OpenPositions   int     `json:"openPositions"`
	ClosedPositions int     `json:"closedPositions"`
	PortfolioValue  float64 `json:"portfolioValue"`
}

// WalletReport aggregates everything the wallet-checker page displays.
type WalletReport struct {
	Stats           WalletStats `json:"stats"`
	PnLHistory      []PnLPoint  `json:"pnlHistory"`
	OpenPositions   []Position  `json:"openPositions"`
	ClosedPositions []Position  `json:"closedPositions"`
}

// LeaderboardEntry is one row of the trader leaderboard.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Address   string  `json:"address"`
	Username  string  `json:"username,omitempty"`
	Profit    float64 `json:"profit"`
	Volume    float64 `json:"volume"`
	AvatarURL string  `json:"avatarUrl,omitempty"`
}
