package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zipmarket/internal/applog"
	"zipmarket/internal/config"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

var (
	cfgFile string
	debug   bool

	// Overrides for the most common config keys.
	flagData       string
	flagBoundaries string
	flagOut        string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zipmarket",
	Short: "Texas real estate market dashboard by ZIP code",
	Long: `zipmarket renders a Texas ZIP code dashboard (choropleth map, correlation
heatmap and summary statistics) from a merged market dataset and a ZIP boundary
file. The page is written to <output_dir>/dashboard.html and rewritten whenever
the mapped column changes.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "dataset CSV path, or oracle:<TABLE> (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBoundaries, "boundaries", "", "ZIP boundary GeoJSON or shapefile (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "output directory for dashboard.html (overrides config)")
	addDashboardFlags(rootCmd)
}

// setup loads configuration and puts the logger into the command context.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("data") {
		c.DatasetPath = flagData
	}
	if f.Changed("boundaries") {
		c.BoundaryPath = flagBoundaries
	}
	if f.Changed("out") {
		c.OutputDir = flagOut
	}
	cfg = c

	logger := applog.New(os.Stderr, debug)
	cmd.SetContext(applog.WithLogger(cmd.Context(), logger))
	logger.Debug("Configuration loaded", "dataset", cfg.DatasetPath, "boundaries", cfg.BoundaryPath, "out", cfg.OutputDir)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%sError:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}
}
