// Command arbscan runs a single cross-exchange arbitrage scan from the
// command line and prints the ranked opportunities. It talks directly to the
// exchange APIs and needs no database or cache, which makes it handy for
// verifying the matcher and spread math against live markets.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hawkolabs/hawko/internal/arbitrage"
	"github.com/hawkolabs/hawko/internal/config"
	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/hawkolabs/hawko/internal/platform/kalshi"
	"github.com/hawkolabs/hawko/internal/platform/polymarket"
)

func main() {
	modeFlag := flag.String("mode", "strict", "match confidence mode: strict or loose")
	limitFlag := flag.Int("limit", 100, "markets fetched per exchange")
	jsonFlag := flag.Bool("json", false, "emit the raw scan as JSON instead of a table")
	verboseFlag := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.LoadDefaults()

	engine := arbitrage.NewEngine(arbitrage.Config{
		ScanTimeout:     cfg.Scanner.ScanTimeout.Duration,
		FetchLimit:      *limitFlag,
		PriceTolerance:  cfg.Scanner.PriceTolerance,
		FeeAllowance:    cfg.Scanner.FeeAllowance,
		MinStrictSpread: cfg.Scanner.MinStrictSpread,
	}, []arbitrage.SourceAdapter{
		polymarket.NewGammaClient(cfg.Polymarket.GammaHost),
		kalshi.NewClient(cfg.Kalshi.BaseURL),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scan, err := engine.Scan(ctx, domain.ParseMode(*modeFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(scan); err != nil {
			fmt.Fprintf(os.Stderr, "encode scan: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printScan(scan)
}

func printScan(scan domain.Scan) {
	fmt.Printf("scan %s (%s mode) completed in %s\n",
		scan.ID, scan.Mode, scan.Duration.Round(time.Millisecond))
	if scan.Degraded() {
		fmt.Printf("warning: degraded scan, failed sources: %v\n", scan.FailedSources)
	}

	if len(scan.Opportunities) == 0 {
		fmt.Println("no arbitrage opportunities found")
		return
	}

	fmt.Printf("%d opportunities:\n\n", len(scan.Opportunities))
	for i, opp := range scan.Opportunities {
		fmt.Printf("%2d. %s  spread=%.2f%%\n", i+1, opp.Event, opp.Spread)
		fmt.Printf("    %-10s yes=%.3f no=%.3f vol=%.0f  %s\n",
			opp.Market1.Source, opp.Market1.YesPrice, opp.Market1.NoPrice,
			opp.Market1.Volume, opp.Market1.Title)
		fmt.Printf("    %-10s yes=%.3f no=%.3f vol=%.0f  %s\n",
			opp.Market2.Source, opp.Market2.YesPrice, opp.Market2.NoPrice,
			opp.Market2.Volume, opp.Market2.Title)
	}
}
