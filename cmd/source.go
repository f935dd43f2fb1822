package main

import (
	"context"
	"fmt"

	"zipmarket/internal/applog"
	"zipmarket/internal/dashboard"
	"zipmarket/internal/database"
	"zipmarket/internal/market"
)

// loaders returns the dataset and boundary loaders for the current config.
// A dataset path of the form oracle:<TABLE> reads a table snapshot instead
// of a CSV file.
func loaders() (dashboard.TableLoader, dashboard.BoundaryLoader) {
	loadCSV, loadBounds := dashboard.FileLoaders(cfg.ZIPColumn, cfg.BoundaryKey)
	loadTable := func(ctx context.Context, path string) (*market.Table, error) {
		table, ok := database.ParseSource(path)
		if !ok {
			return loadCSV(ctx, path)
		}
		db, err := database.NewDatabase(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", market.ErrLoad, err)
		}
		defer db.Close()
		applog.FromContext(ctx).InfoContext(ctx, "Reading table snapshot", "table", table, "host", cfg.DB.Host)
		return db.LoadTable(ctx, table, cfg.ZIPColumn)
	}
	return loadTable, loadBounds
}

// newDashboard builds a dashboard from the loaded config. With progress set,
// load steps are echoed to stdout.
func newDashboard(progress bool) *dashboard.Dashboard {
	loadTable, loadBounds := loaders()
	opts := dashboard.Options{
		DatasetPath:        cfg.DatasetPath,
		BoundaryPath:       cfg.BoundaryPath,
		PreferredColumn:    cfg.PreferredColumn,
		CorrelationExclude: cfg.CorrelationExclude,
		OutputDir:          cfg.OutputDir,
		Title:              cfg.Title,
		PreviewRows:        cfg.PreviewRows,
		LoadTable:          loadTable,
		LoadBoundaries:     loadBounds,
	}
	if progress {
		opts.Progress = printProgress
	}
	return dashboard.New(opts)
}

func printProgress(pct int, status string) {
	if status == "" {
		fmt.Printf("[%3d%%] done\n", pct)
		return
	}
	fmt.Printf("[%3d%%] %s\n", pct, status)
}
