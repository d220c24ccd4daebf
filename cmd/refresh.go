package cmd

import (
	"context"
	"fmt"
	"os"

	"olympics-tracker/core/config"
	"olympics-tracker/core/logger"
	"olympics-tracker/core/store"
	"olympics-tracker/feature/standings/fallback"
	"olympics-tracker/feature/standings/refresh"
	"olympics-tracker/feature/standings/wiki"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitStale tells the external scheduler the cycle persisted but obtained
// no fresh standings from either source.
const exitStale = 2

// refreshCmd runs one refresh cycle: fetch, reconcile, persist.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch current standings and update the dataset",
	Long: `Runs one refresh cycle against the dataset:

  1. Fetch standings from the primary (scraped) source.
  2. On failure, fall back to the lookup service (requires FALLBACK_API_KEY).
  3. Advance event lifecycle from the wall clock.
  4. Reconcile fetched data into the dataset under curated-field rules.
  5. Persist the snapshot atomically.

Exit status: 0 on a fresh update, 2 when the cycle persisted stale
(lifecycle and metadata only), non-zero on hard failure.`,
	RunE: runRefresh,
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	st := store.New(cfg.Store, l)
	primary := wiki.NewAdapter(cfg.Wiki, l)
	secondary := fallback.NewAdapter(cfg.Fallback, l)

	orch := refresh.NewOrchestrator(st, primary, secondary, l)
	res, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh cycle aborted: %w", err)
	}

	if res.Stale {
		l.Warn("Refresh persisted stale data",
			zap.String("cycle_id", res.CycleID),
			zap.Error(res.FetchErr))
		_ = l.Sync()
		os.Exit(exitStale)
	}

	l.Info("Refresh completed",
		zap.String("cycle_id", res.CycleID),
		zap.String("provenance", string(res.Provenance)))
	return nil
}
