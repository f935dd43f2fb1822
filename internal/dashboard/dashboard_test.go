package dashboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zipmarket/internal/boundary"
	"zipmarket/internal/market"
	"zipmarket/internal/session"
)

const testCSV = `zip,AVG_PRICE,COL_INDEX,MEDIAN_INCOME,lat
75001,350000,95.5,72000,32.9
76102,210000,88.1,51000,32.7
78701,520000,,98000,30.2
`

const testBoundaries = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"ZCTA5CE10": "75001"},
   "geometry": {"type": "Polygon", "coordinates": [[[-97,32],[-96,32],[-96,33],[-97,33],[-97,32]]]}},
  {"type": "Feature", "properties": {"ZCTA5CE10": "76102"},
   "geometry": {"type": "Polygon", "coordinates": [[[-98,32],[-97.5,32],[-97.5,32.5],[-98,32.5],[-98,32]]]}}
]}`

type counts struct{ tables, bounds int }

func newTestDashboard(t *testing.T) (*Dashboard, *counts) {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "merge.csv")
	geoPath := filepath.Join(dir, "zips.json")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(geoPath, []byte(testBoundaries), 0o644); err != nil {
		t.Fatal(err)
	}
	loadTable, loadBounds := FileLoaders(market.DefaultZIPColumn, boundary.DefaultKey)
	c := &counts{}
	d := New(Options{
		DatasetPath:        csvPath,
		BoundaryPath:       geoPath,
		PreferredColumn:    session.PreferredColumn,
		CorrelationExclude: market.DefaultCorrelationExclude,
		OutputDir:          filepath.Join(dir, "out"),
		Title:              "Texas Real Estate Market Analysis",
		LoadTable: func(ctx context.Context, path string) (*market.Table, error) {
			c.tables++
			return loadTable(ctx, path)
		},
		LoadBoundaries: func(ctx context.Context, path string) (*boundary.Document, error) {
			c.bounds++
			return loadBounds(ctx, path)
		},
	})
	return d, c
}

func readPage(t *testing.T, d *Dashboard) string {
	t.Helper()
	b, err := os.ReadFile(d.OutputPath())
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	return string(b)
}

func TestLoadRendersPage(t *testing.T) {
	d, _ := newTestDashboard(t)
	var statuses []string
	d.opts.Progress = func(_ int, status string) { statuses = append(statuses, status) }

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := d.State().Selected(); got != "AVG_PRICE" {
		t.Fatalf("default selection = %q", got)
	}
	p := d.Page()
	if p.Filled != 2 || p.Unmatched != 1 || p.Empty != 0 {
		t.Fatalf("join counts filled=%d empty=%d unmatched=%d", p.Filled, p.Empty, p.Unmatched)
	}
	out := readPage(t, d)
	for _, want := range []string{"<option selected>AVG_PRICE</option>", "Correlation Heatmap", "<td>75001</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if len(statuses) == 0 || statuses[0] != "Loading CSV data..." {
		t.Fatalf("progress = %v", statuses)
	}
	m, ok := d.Correlation()
	if !ok {
		t.Fatal("correlation matrix should be cached after Load")
	}
	for _, c := range m.Columns {
		if c == "lat" || c == "zip" {
			t.Fatalf("%s should be excluded from the correlation", c)
		}
	}
}

func TestLoadReadsInputsOnce(t *testing.T) {
	d, c := newTestDashboard(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := d.Load(ctx); err != nil {
			t.Fatalf("Load #%d: %v", i, err)
		}
	}
	if c.tables != 1 || c.bounds != 1 {
		t.Fatalf("loaders ran tables=%d bounds=%d, want 1 each", c.tables, c.bounds)
	}
	if hits, misses := d.CacheStats(); hits != 2 || misses != 1 {
		t.Fatalf("cache stats hits=%d misses=%d", hits, misses)
	}

	if err := d.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if c.tables != 2 || c.bounds != 2 {
		t.Fatalf("Reload should read inputs again, got tables=%d bounds=%d", c.tables, c.bounds)
	}
}

func TestSelectRerendersMapOnly(t *testing.T) {
	d, c := newTestDashboard(t)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	heatBefore := d.Page().HeatmapSVG
	mapBefore := d.Page().MapSVG

	if err := d.Select("COL_INDEX"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	p := d.Page()
	if p.Selected != "COL_INDEX" {
		t.Fatalf("page selection = %q", p.Selected)
	}
	if p.MapSVG == mapBefore {
		t.Fatal("map should be re-rendered for the new column")
	}
	if p.HeatmapSVG != heatBefore {
		t.Fatal("heatmap should not change with the selection")
	}
	if _, misses := d.heat.Stats(); misses != 1 {
		t.Fatalf("heatmap computed %d times", misses)
	}
	if c.tables != 1 {
		t.Fatalf("selection should not reload the dataset")
	}
	// 78701 has no COL_INDEX value and no polygon.
	if p.Filled != 2 || p.Unmatched != 0 {
		t.Fatalf("join counts filled=%d unmatched=%d", p.Filled, p.Unmatched)
	}
	if p.Stats[0].Value != "2" {
		t.Fatalf("count = %s, want 2", p.Stats[0].Value)
	}
	if !strings.Contains(readPage(t, d), "<option selected>COL_INDEX</option>") {
		t.Fatal("page on disk not rewritten")
	}
}

func TestSelectUnknownColumn(t *testing.T) {
	d, _ := newTestDashboard(t)
	if err := d.Select("AVG_PRICE"); err == nil {
		t.Fatal("Select before Load should fail")
	}
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := d.Select("zip"); !errors.Is(err, session.ErrUnknownColumn) {
		t.Fatalf("Select(zip) = %v", err)
	}
	if d.State().Selected() != "AVG_PRICE" {
		t.Fatal("selection changed after a rejected Select")
	}
}

func TestLoadMissingDataset(t *testing.T) {
	d, c := newTestDashboard(t)
	d.opts.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")

	err := d.Load(context.Background())
	if !errors.Is(err, ErrLoad) || !errors.Is(err, market.ErrLoad) {
		t.Fatalf("Load = %v, want ErrLoad", err)
	}
	if c.bounds != 0 {
		t.Fatal("boundaries should not load after a dataset failure")
	}
	out := readPage(t, d)
	if !strings.Contains(out, "Error loading data:") {
		t.Fatal("error page missing message")
	}
	if strings.Contains(out, "<svg") {
		t.Fatal("error page must not contain charts")
	}

	// failures are not cached
	d.Load(context.Background())
	if c.tables != 2 {
		t.Fatalf("failed load should be retried, loader ran %d times", c.tables)
	}
}

func TestLoadBadBoundaries(t *testing.T) {
	d, _ := newTestDashboard(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"type": "Feature"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	d.opts.BoundaryPath = path
	if err := d.Load(context.Background()); !errors.Is(err, boundary.ErrLoad) {
		t.Fatalf("Load = %v, want boundary.ErrLoad", err)
	}
}
