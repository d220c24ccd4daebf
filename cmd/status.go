package cmd

import (
	"fmt"
	"os"

	"olympics-tracker/core/config"
	"olympics-tracker/core/logger"
	"olympics-tracker/core/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// statusCmd prints the current medal table and dataset freshness.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current medal table",
	RunE:  runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	snap, err := store.New(cfg.Store, l).Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Country", "Gold", "Silver", "Bronze", "Total"})

	var gold, silver, bronze, total int
	for _, m := range snap.Medals {
		gold += m.Gold
		silver += m.Silver
		bronze += m.Bronze
		total += m.Total
		t.AppendRow(table.Row{m.Rank, fmt.Sprintf("%s %s", m.Flag, m.Country), m.Gold, m.Silver, m.Bronze, m.Total})
	}
	t.AppendFooter(table.Row{"", "Total", gold, silver, bronze, total})
	t.Render()

	fmt.Printf("\nEvents completed: %d/%d\n", snap.EventsCompleted, snap.EventsTotal)
	fmt.Printf("Last updated:     %s (%s)\n", displayOrNever(snap.LastUpdated.IsZero(), snap.LastUpdated.UTC().Format("2006-01-02 15:04 MST")), snap.Provenance)
	fmt.Printf("Last checked:     %s\n", displayOrNever(snap.LastChecked.IsZero(), snap.LastChecked.UTC().Format("2006-01-02 15:04 MST")))
	return nil
}

func displayOrNever(zero bool, formatted string) string {
	if zero {
		return "never"
	}
	return formatted
}
