package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/hawkolabs/hawko/internal/service"
)

// MarketFeed defines the methods the market handler requires.
type MarketFeed interface {
	Trending(ctx context.Context, limit int) ([]domain.Market, error)
	Metadata(ctx context.Context, ids []string) (map[string]service.MarketMeta, error)
}

// MarketHandler serves the merged market feed.
type MarketHandler struct {
	feed   MarketFeed
	logger *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(feed MarketFeed, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{feed: feed, logger: logger}
}

// listMarketsResponse wraps the market feed response.
type listMarketsResponse struct {
	Markets []domain.Market `json:"markets"`
}

// ListMarkets returns active markets from every exchange, sorted by volume.
// GET /api/markets?limit=50
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50, 500)

	markets, err := h.feed.Trending(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list markets failed",
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrNoSourcesAvailable) {
			writeError(w, http.StatusBadGateway, "no market sources available")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list markets")
		return
	}

	if markets == nil {
		markets = []domain.Market{}
	}
	writeJSON(w, http.StatusOK, listMarketsResponse{Markets: markets})
}

// Metadata resolves display metadata for a comma-separated list of market IDs.
// GET /api/markets/metadata?ids=a,b,c
func (h *MarketHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	meta, err := h.feed.Metadata(r.Context(), ids)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: market metadata failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to resolve market metadata")
		return
	}

	writeJSON(w, http.StatusOK, meta)
}
