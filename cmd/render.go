package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderColumn string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard once for a column and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d := newDashboard(false)
		if err := d.Load(cmd.Context()); err != nil {
			return err
		}
		if renderColumn != "" {
			if err := d.Select(renderColumn); err != nil {
				return err
			}
		}
		p := d.Page()
		fmt.Printf("%s: %d ZIPs mapped, %d without data, %d without a boundary\n", p.Selected, p.Filled, p.Empty, p.Unmatched)
		fmt.Printf("Dashboard written to %s\n", d.OutputPath())
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderColumn, "column", "", "numeric column to map (default: preferred column)")
	rootCmd.AddCommand(renderCmd)
}
