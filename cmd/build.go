package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"olympics-tracker/core/config"
	"olympics-tracker/core/logger"
	"olympics-tracker/core/render"
	"olympics-tracker/core/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildCmd renders the dataset into the static page.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the dataset into the static page",
	Long: `Reads the persisted dataset, substitutes its values into the page
template, and writes the output document. Unresolved template tokens fail
the build.`,
	RunE: runBuild,
}

func init() {
	RootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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
	snap, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	template, err := os.ReadFile(cfg.Render.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	out, err := render.New(cfg.Render).Render(template, snap)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Render.OutputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.Render.OutputPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	l.Info("Page built",
		zap.String("output", cfg.Render.OutputPath),
		zap.Int("bytes", len(out)),
		zap.Int("countries", len(snap.Medals)),
		zap.String("provenance", string(snap.Provenance)))
	return nil
}
