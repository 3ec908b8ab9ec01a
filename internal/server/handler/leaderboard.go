package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hawkolabs/hawko/internal/domain"
)

// LeaderboardService defines the methods the leaderboard handler requires.
type LeaderboardService interface {
	Top(ctx context.Context, period string, limit int, category string) ([]domain.LeaderboardEntry, error)
}

// LeaderboardHandler serves the trader leaderboard.
type LeaderboardHandler struct {
	board  LeaderboardService
	logger *slog.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(board LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{board: board, logger: logger}
}

// leaderboardResponse wraps the leaderboard rows.
type leaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// Top returns the leaderboard for a period.
// GET /api/leaderboard?period=week&limit=20&category=profit
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := parseLimit(r, 20, 100)

	entries, err := h.board.Top(r.Context(), q.Get("period"), limit, q.Get("category"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "unknown leaderboard period")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: leaderboard failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "leaderboard unavailable")
		return
	}

	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: entries})
}
