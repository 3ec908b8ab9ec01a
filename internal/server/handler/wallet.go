package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hawkolabs/hawko/internal/domain"
)

// WalletService defines the methods the wallet handler requires.
type WalletService interface {
	Report(ctx context.Context, address string) (domain.WalletReport, error)
}

// WalletHandler serves the wallet checker endpoint.
type WalletHandler struct {
	wallets WalletService
	logger  *slog.Logger
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(wallets WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{wallets: wallets, logger: logger}
}

// Report returns the aggregated PnL report for one wallet.
// GET /api/wallet?address=0x...
func (h *WalletHandler) Report(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address query parameter is required")
		return
	}

	report, err := h.wallets.Report(r.Context(), address)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, "invalid wallet address")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: wallet report failed",
			slog.String("address", address),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "wallet data unavailable")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
