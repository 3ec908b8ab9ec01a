package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/hawkolabs/hawko/internal/platform/polymarket"
)

// tradesFetcher is the slice of the Polymarket Data API whale tracking needs.
type tradesFetcher interface {
	RecentTrades(ctx context.Context, limit int, minAmountUSD float64) ([]polymarket.APITrade, error)
}

// Broadcaster pushes an event to every connected dashboard client.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// tradeFetchLimit is how many trades each poll pulls from the upstream feed.
const tradeFetchLimit = 100

// WhaleService tracks large trades: it polls the upstream trade feed,
// deduplicates into the capped alert log, and fans new alerts out to
// websocket subscribers. External watchers can also submit alerts directly.
type WhaleService struct {
	data      tradesFetcher
	log       domain.WhaleLog
	bus       Broadcaster
	minAmount float64
	logger    *slog.Logger
}

// NewWhaleService creates a WhaleService. bus may be nil when running without
// the server.
func NewWhaleService(data tradesFetcher, log domain.WhaleLog, bus Broadcaster, minAmount float64, logger *slog.Logger) *WhaleService {
	return &WhaleService{
		data:      data,
		log:       log,
		bus:       bus,
		minAmount: minAmount,
		logger:    logger,
	}
}

// Poll fetches recent large trades and appends the ones not seen before.
// It returns the number of new alerts.
func (s *WhaleService) Poll(ctx context.Context) (int, error) {
	trades, err := s.data.RecentTrades(ctx, tradeFetchLimit, s.minAmount)
	if err != nil {
		return 0, fmt.Errorf("whale_service: poll: %w", err)
	}

	alerts := make([]domain.WhaleAlert, 0, len(trades))
	for _, t := range trades {
		a := tradeToAlert(t)
		if a.AmountUSD < s.minAmount {
			continue
		}
		alerts = append(alerts, a)
	}

	return s.record(ctx, alerts)
}

// Record validates and appends externally submitted alerts, for the POST
// endpoint used by standalone watchers.
func (s *WhaleService) Record(ctx context.Context, alerts []domain.WhaleAlert) (int, error) {
	for _, a := range alerts {
		if a.ID == "" {
			return 0, fmt.Errorf("whale_service: alert without id: %w", domain.ErrInvalidInput)
		}
		if a.Timestamp <= 0 {
			return 0, fmt.Errorf("whale_service: alert %s without timestamp: %w", a.ID, domain.ErrInvalidInput)
		}
		if a.AmountUSD < 0 {
			return 0, fmt.Errorf("whale_service: alert %s with negative amount: %w", a.ID, domain.ErrInvalidInput)
		}
	}
	return s.record(ctx, alerts)
}

// List returns the alert log newest-first with limit/offset paging. A storage
// outage degrades to an empty page so the dashboard keeps rendering.
func (s *WhaleService) List(ctx context.Context, opts domain.ListOpts) (domain.WhaleAlertPage, error) {
	page, err := s.log.List(ctx, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "whale_service: list failed, serving empty page",
			slog.String("error", err.Error()),
		)
		return domain.WhaleAlertPage{Alerts: []domain.WhaleAlert{}}, nil
	}
	return page, nil
}

// Run polls the trade feed at the given interval until the context is
// cancelled.
func (s *WhaleService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			added, err := s.Poll(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "whale_service: poll failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if added > 0 {
				s.logger.InfoContext(ctx, "whale_service: new whale alerts",
					slog.Int("count", added),
				)
			}
		}
	}
}

func (s *WhaleService) record(ctx context.Context, alerts []domain.WhaleAlert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	added, err := s.log.Add(ctx, alerts)
	if err != nil {
		// Storage outages degrade to "nothing stored" rather than failing
		// the caller; alerts are re-fetchable from the upstream feed.
		s.logger.WarnContext(ctx, "whale_service: store failed",
			slog.String("error", err.Error()),
			slog.Int("added", added),
		)
		return added, nil
	}

	if added > 0 && s.bus != nil {
		// Re-read the freshest page so subscribers see the post-trim view.
		page, err := s.log.List(ctx, domain.ListOpts{Limit: added})
		if err == nil {
			s.bus.Broadcast("whale_alerts", page.Alerts)
		}
	}
	return added, nil
}

// tradeToAlert converts one upstream trade row. The transaction hash is the
// dedup identity; rows missing one get a name-based UUID over the trade's
// identifying fields, so replayed feed pages still deduplicate. The USD
// amount is shares times price.
func tradeToAlert(t polymarket.APITrade) domain.WhaleAlert {
	id := t.TxHash
	if id == "" {
		name := fmt.Sprintf("%s|%s|%d|%s|%v", t.Wallet, t.ConditionID, t.Timestamp, t.Side, float64(t.Size))
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
	}
	return domain.WhaleAlert{
		ID:          id,
		Timestamp:   t.Timestamp,
		Wallet:      t.Wallet,
		MarketID:    t.ConditionID,
		MarketTitle: t.Title,
		Outcome:     strings.ToUpper(t.Outcome),
		Side:        strings.ToUpper(t.Side),
		Price:       float64(t.Price),
		Shares:      float64(t.Size),
		AmountUSD:   float64(t.Size) * float64(t.Price),
		Image:       t.Icon,
	}
}
