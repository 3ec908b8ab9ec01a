package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hawkolabs/hawko/internal/domain"
)

// WhaleService defines the methods the whale handler requires.
type WhaleService interface {
	List(ctx context.Context, opts domain.ListOpts) (domain.WhaleAlertPage, error)
	Record(ctx context.Context, alerts []domain.WhaleAlert) (int, error)
}

// WhaleHandler serves the whale alert log.
type WhaleHandler struct {
	whales WhaleService
	logger *slog.Logger
}

// NewWhaleHandler creates a WhaleHandler.
func NewWhaleHandler(whales WhaleService, logger *slog.Logger) *WhaleHandler {
	return &WhaleHandler{whales: whales, logger: logger}
}

// List returns whale alerts newest-first with limit/offset paging.
// GET /api/whale-alerts?limit=50&offset=0
func (h *WhaleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.whales.List(r.Context(), parseListOpts(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list whale alerts failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list whale alerts")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// recordRequest is the POST body: either a single alert or a batch.
type recordRequest struct {
	Alerts []domain.WhaleAlert `json:"alerts"`
}

// recordResponse reports how many submitted alerts were new.
type recordResponse struct {
	Added int `json:"added"`
}

// Record accepts externally detected whale alerts.
// POST /api/whale-alerts
func (h *WhaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.Alerts) == 0 {
		writeError(w, http.StatusBadRequest, "no alerts in request")
		return
	}

	added, err := h.whales.Record(r.Context(), req.Alerts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid alert payload")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: record whale alerts failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to record whale alerts")
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{Added: added})
}
