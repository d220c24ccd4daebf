package cmd

import (
	"fmt"
	"os"

	"olympics-tracker/core/config"
	"olympics-tracker/core/logger"
	"olympics-tracker/core/store"
	"olympics-tracker/feature/standings/models"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedEventsPath  string
	seedEventsTotal int
)

// seedCmd creates the initial dataset snapshot.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial dataset snapshot",
	Long: `Creates the dataset document refresh cycles operate on. The schedule
can be supplied as a JSON array of events via --events; without it an empty
skeleton is written. Refuses to overwrite an existing dataset.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedEventsPath, "events", "", "Path to a JSON array of events to seed the schedule with")
	seedCmd.Flags().IntVar(&seedEventsTotal, "events-total", 116, "Total number of medal events in the games")
	RootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
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
	if st.Exists() {
		return fmt.Errorf("dataset already exists at %s", st.Path())
	}

	snap := &models.Snapshot{
		Events:      []models.Event{},
		Medals:      []models.MedalEntry{},
		Projections: []models.AthleteProjection{},
		EventsTotal: seedEventsTotal,
		Provenance:  models.ProvenanceNone,
	}

	if seedEventsPath != "" {
		raw, err := os.ReadFile(seedEventsPath)
		if err != nil {
			return fmt.Errorf("failed to read events file: %w", err)
		}
		if err := json.Unmarshal(raw, &snap.Events); err != nil {
			return fmt.Errorf("failed to parse events file: %w", err)
		}
		for i := range snap.Events {
			if snap.Events[i].Status == "" {
				snap.Events[i].Status = models.StatusScheduled
			}
		}
	}

	if err := st.Replace(snap); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	l.Info("Dataset seeded",
		zap.String("path", st.Path()),
		zap.Int("events", len(snap.Events)))
	return nil
}
