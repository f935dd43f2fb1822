package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zipmarket/internal/applog"
)

var noInteractive bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the dashboard and pick the mapped column interactively",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	addDashboardFlags(dashboardCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func addDashboardFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "render once and exit without the column selector")
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	start := time.Now()

	d := newDashboard(true)
	if err := d.Load(ctx); err != nil {
		fmt.Printf("Error page written to %s\n", d.OutputPath())
		return err
	}
	fmt.Printf("Dashboard written to %s in %v\n", d.OutputPath(), time.Since(start).Truncate(time.Millisecond))
	if noInteractive {
		return nil
	}

	state := d.State()
	s := newSelector(state.Options(), state.Index(), d.Select)
	header := fmt.Sprintf("%s\r\nSelect variable for map coloring (page: %s)", cfg.Title, d.OutputPath())
	if err := interactiveSelect(s, header); err != nil {
		return err
	}
	hits, misses := d.CacheStats()
	applog.FromContext(ctx).Debug("Session ended", "selected", state.Selected(), "cache_hits", hits, "cache_misses", misses)
	return nil
}
