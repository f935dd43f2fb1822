package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zipmarket/internal/market"
	"zipmarket/internal/render"
)

var describeColumn string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print summary statistics for one or every numeric column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		loadTable, _ := loaders()
		fmt.Println("Loading CSV data...")
		t, err := loadTable(ctx, cfg.DatasetPath)
		if err != nil {
			return err
		}
		fmt.Printf("%d rows, %d columns\n", t.Len(), len(t.Columns()))

		columns := t.NumericColumns()
		if describeColumn != "" {
			columns = []string{describeColumn}
		}
		for _, c := range columns {
			s, err := market.Describe(t, c)
			if err != nil {
				return err
			}
			renderSummary(os.Stdout, s)
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeColumn, "column", "", "numeric column to describe (default: all)")
	rootCmd.AddCommand(describeCmd)
}

// renderSummary prints a Summary in a readable aligned layout.
func renderSummary(w io.Writer, s market.Summary) {
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%s\n", s.Column)
	for _, r := range render.SummaryRows(s) {
		fmt.Fprintf(w, "  %-6s: %14s\n", r.Label, r.Value)
	}
}
