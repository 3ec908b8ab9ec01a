package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hawkolabs/hawko/internal/domain"
)

// ArbService defines the methods that the arbitrage handler requires.
type ArbService interface {
	Live(ctx context.Context, mode domain.Mode) (domain.Scan, error)
	History(ctx context.Context, limit int) ([]domain.Scan, error)
}

// ArbHandler serves arbitrage scan endpoints.
type ArbHandler struct {
	scans  ArbService
	logger *slog.Logger
}

// NewArbHandler creates an ArbHandler with the given service and logger.
func NewArbHandler(scans ArbService, logger *slog.Logger) *ArbHandler {
	return &ArbHandler{scans: scans, logger: logger}
}

// scanResponse wraps one scan result. Degraded is surfaced explicitly so the
// dashboard can flag partial results.
type scanResponse struct {
	Scan     domain.Scan `json:"scan"`
	Degraded bool        `json:"degraded"`
}

// Scan runs a live arbitrage scan in the requested mode.
// GET /api/arbitrage?mode=strict
func (h *ArbHandler) Scan(w http.ResponseWriter, r *http.Request) {
	mode := domain.ParseMode(r.URL.Query().Get("mode"))

	scan, err := h.scans.Live(r.Context(), mode)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: live scan failed",
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrNoSourcesAvailable) {
			writeError(w, http.StatusBadGateway, "no market sources available")
			return
		}
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{Scan: scan, Degraded: scan.Degraded()})
}

// historyResponse wraps the persisted scan history.
type historyResponse struct {
	Scans []domain.Scan `json:"scans"`
}

// History returns recent persisted scans, newest first.
// GET /api/arbitrage/history?limit=20
func (h *ArbHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)

	scans, err := h.scans.History(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: scan history failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list scan history")
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Scans: scans})
}
