// Package dashboard wires the loaders, the session cache, the selection state
// and the renderers into one page that is rewritten on every change.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zipmarket/internal/applog"
	"zipmarket/internal/boundary"
	"zipmarket/internal/cache"
	"zipmarket/internal/market"
	"zipmarket/internal/render"
	"zipmarket/internal/session"
)

// ErrLoad wraps every dataset or boundary load failure.
var ErrLoad = errors.New("error loading data")

// PageFile is the name of the rendered document inside the output directory.
const PageFile = "dashboard.html"

// TableLoader reads the market dataset named by path.
type TableLoader func(ctx context.Context, path string) (*market.Table, error)

// BoundaryLoader reads the ZIP boundary document named by path.
type BoundaryLoader func(ctx context.Context, path string) (*boundary.Document, error)

// Options configures a Dashboard.
type Options struct {
	DatasetPath        string
	BoundaryPath       string
	PreferredColumn    string
	CorrelationExclude []string
	OutputDir          string
	Title              string
	PreviewRows        int
	Map                render.MapOptions
	Heatmap            render.HeatmapOptions

	LoadTable      TableLoader
	LoadBoundaries BoundaryLoader
	// Progress, when set, receives load progress (0-100) and a status line.
	Progress func(percent int, status string)
}

// FileLoaders returns loaders reading a CSV dataset and a GeoJSON or
// shapefile boundary document from disk.
func FileLoaders(zipColumn, boundaryKey string) (TableLoader, BoundaryLoader) {
	return func(_ context.Context, path string) (*market.Table, error) {
			return market.LoadCSV(path, zipColumn)
		}, func(_ context.Context, path string) (*boundary.Document, error) {
			return boundary.Load(path, boundaryKey)
		}
}

type heatmap struct {
	matrix *market.CorrMatrix
	svg    []byte
}

// Dashboard holds the session: cached inputs, the selection and the last
// rendered page.
type Dashboard struct {
	opts   Options
	log    *slog.Logger
	tables *cache.Memo[string, *market.Table]
	bounds *cache.Memo[string, *boundary.Document]
	heat   *cache.Memo[*market.Table, heatmap]

	table *market.Table
	doc   *boundary.Document
	state *session.State
	page  render.Page
	err   error // last render error raised inside a selection event
}

// New creates a dashboard; nothing is loaded until Load.
func New(opts Options) *Dashboard {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = render.PreviewRows
	}
	if opts.Map.Width == 0 {
		opts.Map = render.DefaultMapOptions()
	}
	if opts.Heatmap.Cell == 0 {
		opts.Heatmap = render.DefaultHeatmapOptions()
	}
	return &Dashboard{
		opts:   opts,
		log:    slog.Default(),
		tables: cache.New[string, *market.Table](),
		bounds: cache.New[string, *boundary.Document](),
		heat:   cache.New[*market.Table, heatmap](),
	}
}

// Load reads both inputs (at most once per path), creates the selection on
// first use and renders the full page. On a load failure it writes an
// error-only page and returns an error wrapping ErrLoad.
func (d *Dashboard) Load(ctx context.Context) error {
	d.log = applog.FromContext(ctx)
	start := time.Now()

	d.progress(0, "Loading CSV data...")
	table, err := d.tables.Get(d.opts.DatasetPath, func() (*market.Table, error) {
		return d.opts.LoadTable(ctx, d.opts.DatasetPath)
	})
	if err != nil {
		return d.fail(err)
	}
	d.progress(50, "Loading boundary data...")
	doc, err := d.bounds.Get(d.opts.BoundaryPath, func() (*boundary.Document, error) {
		return d.opts.LoadBoundaries(ctx, d.opts.BoundaryPath)
	})
	if err != nil {
		return d.fail(err)
	}
	d.progress(100, "")
	d.log.DebugContext(ctx, "Inputs ready",
		"rows", table.Len(), "zips", len(doc.Features), "elapsed", time.Since(start).Truncate(time.Millisecond))

	if d.state == nil || d.table != table {
		preferred := d.opts.PreferredColumn
		if d.state != nil {
			// keep the user's column across a reload when it still exists
			preferred = d.state.Selected()
		}
		state, err := session.New(table.NumericColumns(), preferred)
		if err != nil {
			return d.fail(err)
		}
		state.Subscribe(d.onSelect)
		d.state = state
	}
	d.table, d.doc = table, doc

	d.page = render.Page{
		Title:   d.opts.Title,
		Options: d.state.Options(),
		Columns: table.Columns(),
		Preview: table.Head(d.opts.PreviewRows),
	}
	if err := d.renderCorrelation(); err != nil {
		return err
	}
	if err := d.renderSelection(); err != nil {
		return err
	}
	return d.write()
}

// Reload drops the cached inputs so the next Load reads the files again.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.tables.Invalidate(d.opts.DatasetPath)
	d.bounds.Invalidate(d.opts.BoundaryPath)
	if d.table != nil {
		d.heat.Invalidate(d.table)
	}
	return d.Load(ctx)
}

// State exposes the selection; nil before a successful Load.
func (d *Dashboard) State() *session.State { return d.state }

// Page returns the last rendered page model.
func (d *Dashboard) Page() render.Page { return d.page }

// OutputPath is where the page is written.
func (d *Dashboard) OutputPath() string {
	return filepath.Join(d.opts.OutputDir, PageFile)
}

// Select changes the mapped column. The selection event re-renders the map
// and the statistics panel and rewrites the page.
func (d *Dashboard) Select(name string) error {
	if d.state == nil {
		return errors.New("dashboard is not loaded")
	}
	d.err = nil
	if err := d.state.Select(name); err != nil {
		return err
	}
	return d.err
}

// CacheStats reports hits and misses of the dataset cache.
func (d *Dashboard) CacheStats() (hits, misses int) { return d.tables.Stats() }

// onSelect is the selection listener: only the selection-dependent panels
// are recomputed; the correlation heatmap comes from its cache.
func (d *Dashboard) onSelect(old, selected string) {
	d.log.Debug("Selection changed", "from", old, "to", selected)
	if err := d.renderSelection(); err != nil {
		d.err = err
		return
	}
	d.err = d.write()
}

func (d *Dashboard) renderCorrelation() error {
	h, err := d.heat.Get(d.table, func() (heatmap, error) {
		m := market.Correlate(d.table, d.opts.CorrelationExclude)
		svg, err := render.Heatmap(m, "", d.opts.Heatmap)
		if err != nil {
			return heatmap{}, err
		}
		return heatmap{matrix: m, svg: svg}, nil
	})
	if err != nil {
		return fmt.Errorf("render correlation heatmap: %w", err)
	}
	d.page.HeatmapSVG = template.HTML(h.svg)
	return nil
}

// Correlation returns the cached correlation matrix of the loaded table.
func (d *Dashboard) Correlation() (*market.CorrMatrix, bool) {
	if d.table == nil {
		return nil, false
	}
	h, ok := d.heat.Peek(d.table)
	return h.matrix, ok
}

func (d *Dashboard) renderSelection() error {
	col := d.state.Selected()
	column, _ := d.table.Column(col)
	m, err := render.Choropleth(d.doc, d.table.ValuesByZIP(col), column, "Texas "+col+" by ZIP Code", d.opts.Map)
	if err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	summary, err := market.Describe(d.table, col)
	if err != nil {
		return fmt.Errorf("describe %s: %w", col, err)
	}
	d.page.Selected = col
	d.page.MapSVG = template.HTML(m.SVG)
	d.page.Stats = render.SummaryRows(summary)
	d.page.Filled, d.page.Empty, d.page.Unmatched = len(m.Filled), len(m.Empty), len(m.Unmatched)
	d.log.Debug("Rendered map", "column", col, "filled", len(m.Filled), "unmatched", len(m.Unmatched))
	return nil
}

// fail writes the error-only page and returns cause wrapped in ErrLoad.
// No chart is produced.
func (d *Dashboard) fail(cause error) error {
	d.page = render.Page{Title: d.opts.Title, Error: cause.Error()}
	if err := d.write(); err != nil {
		d.log.Warn("Could not write error page", "error", err)
	}
	return fmt.Errorf("%w: %w", ErrLoad, cause)
}

func (d *Dashboard) write() error {
	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(d.OutputPath())
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	if err := render.WritePage(f, d.page); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *Dashboard) progress(pct int, status string) {
	if d.opts.Progress != nil {
		d.opts.Progress(pct, status)
	}
}
