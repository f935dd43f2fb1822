package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"zipmarket/internal/market"
	"zipmarket/internal/render"
)

var locateLat, locateLon float64

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the ZIP code containing a point and print its market data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		loadTable, loadBounds := loaders()

		fmt.Println("Loading boundary data...")
		doc, err := loadBounds(ctx, cfg.BoundaryPath)
		if err != nil {
			return err
		}
		f, ok := doc.Locate(locateLon, locateLat)
		if !ok {
			fmt.Printf("No ZIP boundary contains %.6f, %.6f\n", locateLat, locateLon)
			return nil
		}

		fmt.Println("Loading CSV data...")
		t, err := loadTable(ctx, cfg.DatasetPath)
		if err != nil {
			return err
		}
		renderZIP(os.Stdout, f.ZIP, f.Attrs, t)
		return nil
	},
}

func init() {
	locateCmd.Flags().Float64Var(&locateLat, "lat", 0, "latitude in decimal degrees")
	locateCmd.Flags().Float64Var(&locateLon, "lon", 0, "longitude in decimal degrees")
	locateCmd.MarkFlagRequired("lat")
	locateCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(locateCmd)
}

// renderZIP prints a ZIP's boundary attributes and market metrics.
func renderZIP(w io.Writer, zip string, attrs map[string]string, t *market.Table) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%-18s: %s\n", "ZIP", zip)

	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if v := strings.TrimSpace(attrs[k]); v != "" && v != zip {
			fmt.Fprintf(w, "%-18s: %s\n", k, v)
		}
	}
	fmt.Fprintln(w)

	row, ok := t.Lookup(zip)
	if !ok {
		fmt.Fprintf(w, "%sNo market data for ZIP %s%s\n", colorRed, zip, colorReset)
		return
	}
	for _, c := range t.NumericColumns() {
		v, ok := row.Metric(c)
		if !ok {
			fmt.Fprintf(w, "%-18s: %s-%s\n", c, colorRed, colorReset)
			continue
		}
		fmt.Fprintf(w, "%-18s: %s\n", c, render.FormatNumber(v))
	}
}
