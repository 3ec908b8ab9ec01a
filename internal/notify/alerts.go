package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// alertTimeout bounds one delivery attempt across all senders.
const alertTimeout = 15 * time.Second

// maxAlertLines caps how many opportunities or trades one message lists.
const maxAlertLines = 5

// Alerter turns dashboard broadcast events into operator notifications. It
// implements the same Broadcast signature as the websocket hub, so the
// services can fan out to both without knowing about notification channels.
// Delivery runs asynchronously; a slow Telegram API never stalls a scan.
type Alerter struct {
	notifier  *Notifier
	minSpread float64
	logger    *slog.Logger
}

// NewAlerter creates an Alerter over the given Notifier. minSpread is the
// minimum top spread (percent) a scan needs before a notification is sent.
func NewAlerter(notifier *Notifier, minSpread float64, logger *slog.Logger) *Alerter {
	return &Alerter{
		notifier:  notifier,
		minSpread: minSpread,
		logger:    logger.With(slog.String("component", "alerter")),
	}
}

// Broadcast translates a dashboard event into a notification. Unknown events
// and payloads of unexpected shape are ignored.
func (a *Alerter) Broadcast(event string, payload any) {
	var title, message string

	switch event {
	case "scan":
		scan, ok := payload.(domain.Scan)
		if !ok {
			return
		}
		title, message = a.formatScan(scan)
	case "whale_alerts":
		alerts, ok := payload.([]domain.WhaleAlert)
		if !ok {
			return
		}
		title, message = formatWhaleAlerts(alerts)
	default:
		return
	}

	if message == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		if err := a.notifier.Notify(ctx, event, title, message); err != nil {
			a.logger.Warn("notification delivery failed",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// formatScan renders a completed scan. Scans with no opportunities, or whose
// best spread is below the configured minimum, produce no message.
func (a *Alerter) formatScan(scan domain.Scan) (string, string) {
	if len(scan.Opportunities) == 0 {
		return "", ""
	}
	// Opportunities are ranked best-first.
	if scan.Opportunities[0].Spread < a.minSpread {
		return "", ""
	}

	var b strings.Builder
	for i, opp := range scan.Opportunities {
		if i == maxAlertLines {
			fmt.Fprintf(&b, "... and %d more\n", len(scan.Opportunities)-maxAlertLines)
			break
		}
		fmt.Fprintf(&b, "%.2f%%  %s (%s / %s)\n",
			opp.Spread, opp.Event, opp.Market1.Source, opp.Market2.Source)
	}
	if scan.Degraded() {
		fmt.Fprintf(&b, "degraded scan, failed sources: %v\n", scan.FailedSources)
	}

	title := fmt.Sprintf("Arbitrage: %d opportunities (%s mode)",
		len(scan.Opportunities), scan.Mode)
	return title, b.String()
}

// formatWhaleAlerts renders freshly recorded whale trades, largest first in
// the order the log returned them.
func formatWhaleAlerts(alerts []domain.WhaleAlert) (string, string) {
	if len(alerts) == 0 {
		return "", ""
	}

	var b strings.Builder
	for i, w := range alerts {
		if i == maxAlertLines {
			fmt.Fprintf(&b, "... and %d more\n", len(alerts)-maxAlertLines)
			break
		}
		fmt.Fprintf(&b, "$%.0f %s %s @ %.3f  %s (%s)\n",
			w.AmountUSD, w.Side, w.Outcome, w.Price, w.MarketTitle, shortWallet(w.Wallet))
	}

	title := fmt.Sprintf("Whale trades: %d new", len(alerts))
	return title, b.String()
}

// shortWallet abbreviates a hex address to its familiar 0x1234...abcd form.
func shortWallet(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
