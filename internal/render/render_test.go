package render

import (
	"bytes"
	"html/template"
	"math"
	"reflect"
	"strings"
	"testing"

	"zipmarket/internal/boundary"
	"zipmarket/internal/market"
)

const twoSquares = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"ZCTA5CE10": "75001"},
   "geometry": {"type": "Polygon", "coordinates": [[[-97,32],[-96,32],[-96,33],[-97,33],[-97,32]]]}},
  {"type": "Feature", "properties": {"ZCTA5CE10": "76102"},
   "geometry": {"type": "Polygon", "coordinates": [[[-98,32],[-97.5,32],[-97.5,32.5],[-98,32.5],[-98,32]]]}}
]}`

func TestTexasCentricOrigin(t *testing.T) {
	x, y := TexasCentric().Project(-100, 31+10.0/60)
	if math.Abs(x-1000000) > 1e-3 || math.Abs(y-1000000) > 1e-3 {
		t.Fatalf("origin projects to %v, %v", x, y)
	}
	// Dallas lies east and north of the origin.
	x, y = TexasCentric().Project(-96.8, 32.78)
	if x <= 1000000 || y <= 1000000 {
		t.Fatalf("Dallas projects to %v, %v", x, y)
	}
}

func TestFrameKeepsTexasInside(t *testing.T) {
	fr := NewFrame(TexasCentric(), TexasBBox, 10, 40, 800, 700)
	points := [][2]float64{{-106.6, 31.8}, {-93.6, 30.0}, {-97.4, 25.9}, {-100.0, 36.5}}
	for _, p := range points {
		x, y := fr.Pixel(p[0], p[1])
		if x < 10 || x > 810 || y < 40 || y > 740 {
			t.Errorf("Pixel(%v) = %d,%d outside frame", p, x, y)
		}
	}
	// north is up
	_, yNorth := fr.Pixel(-100, 36)
	_, ySouth := fr.Pixel(-100, 27)
	if yNorth >= ySouth {
		t.Fatalf("north y %d should be above south y %d", yNorth, ySouth)
	}
}

func TestDivergingScale(t *testing.T) {
	s := MeanCentered(100, 50, 200)
	if s.At(100) != rdbuMid {
		t.Fatalf("center color = %v", s.At(100))
	}
	if s.At(200) != rdbuHigh {
		t.Fatalf("max color = %v", s.At(200))
	}
	if s.At(math.NaN()) != missingFill {
		t.Fatal("NaN should use the missing fill")
	}
	if c := s.At(0); c != rdbuLow {
		t.Fatalf("beyond spread should clamp to low, got %v", c)
	}
	flat := MeanCentered(5, 5, 5)
	if flat.At(5) != rdbuMid {
		t.Fatal("zero spread should use the mid color")
	}
}

func TestChoroplethJoin(t *testing.T) {
	doc, err := boundary.ParseGeoJSON([]byte(`{"type": "FeatureCollection", "features": [
	  {"type": "Feature", "properties": {"ZCTA5CE10": "75001"},
	   "geometry": {"type": "Polygon", "coordinates": [[[-97,32],[-96,32],[-96,33],[-97,33],[-97,32]]]}}]}`), boundary.DefaultKey)
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}
	m, err := Choropleth(doc, map[string]float64{"75001": 1, "75002": 2}, nil, "AVG_PRICE", DefaultMapOptions())
	if err != nil {
		t.Fatalf("Choropleth: %v", err)
	}
	if !reflect.DeepEqual(m.Filled, []string{"75001"}) {
		t.Fatalf("Filled = %v", m.Filled)
	}
	if !reflect.DeepEqual(m.Unmatched, []string{"75002"}) {
		t.Fatalf("Unmatched = %v", m.Unmatched)
	}
	if m.Scale.Center != 1.5 {
		t.Fatalf("scale center = %v, want mean 1.5", m.Scale.Center)
	}
	if !bytes.Contains(m.SVG, []byte("<svg")) || !bytes.Contains(m.SVG, []byte("<path")) {
		t.Fatalf("unexpected svg output: %.200s", m.SVG)
	}
}

func TestChoroplethEmptyPolygon(t *testing.T) {
	doc, _ := boundary.ParseGeoJSON([]byte(twoSquares), boundary.DefaultKey)
	m, err := Choropleth(doc, map[string]float64{"76102": 10}, nil, "", DefaultMapOptions())
	if err != nil {
		t.Fatalf("Choropleth: %v", err)
	}
	if !reflect.DeepEqual(m.Empty, []string{"75001"}) || len(m.Unmatched) != 0 {
		t.Fatalf("Empty = %v, Unmatched = %v", m.Empty, m.Unmatched)
	}
}

func TestChoroplethCenterMatchesColumnMean(t *testing.T) {
	tbl, err := market.ReadCSV(strings.NewReader("zip,AVG_PRICE\n75001,10\n75001,30\n75002,20\n,100\n"), "zip")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	doc, _ := boundary.ParseGeoJSON([]byte(twoSquares), boundary.DefaultKey)
	column, _ := tbl.Column("AVG_PRICE")
	m, err := Choropleth(doc, tbl.ValuesByZIP("AVG_PRICE"), column, "AVG_PRICE", DefaultMapOptions())
	if err != nil {
		t.Fatalf("Choropleth: %v", err)
	}
	s, err := market.Describe(tbl, "AVG_PRICE")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if m.Scale.Center != 40 || m.Scale.Center != s.Mean {
		t.Fatalf("scale center = %v, column mean = %v, want 40", m.Scale.Center, s.Mean)
	}
	// spread reaches the farthest value, including the row without a ZIP
	if m.Scale.Spread != 60 {
		t.Fatalf("spread = %v, want 60", m.Scale.Spread)
	}
	if !reflect.DeepEqual(m.Filled, []string{"75001"}) || !reflect.DeepEqual(m.Unmatched, []string{"75002"}) {
		t.Fatalf("Filled = %v, Unmatched = %v", m.Filled, m.Unmatched)
	}
}

func TestHeatmapAnnotations(t *testing.T) {
	m := &market.CorrMatrix{
		Columns: []string{"AVG_PRICE", "MEDIAN_INCOME", "COL_INDEX"},
		Values: [][]float64{
			{1, 0.5, -0.25},
			{0.5, 1, math.NaN()},
			{-0.25, math.NaN(), 1},
		},
	}
	svg, err := Heatmap(m, "Correlation Heatmap", DefaultHeatmapOptions())
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	out := string(svg)
	for _, want := range []string{"1.00", "0.50", "-0.25", "MEDIAN_INCOME"} {
		if !strings.Contains(out, want) {
			t.Errorf("heatmap missing %q", want)
		}
	}
	if strings.Contains(out, "NaN") {
		t.Error("undefined cells should not be annotated")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:           "0",
		350000:      "350,000",
		1234567.891: "1,234,567.89",
		-4200.5:     "-4,200.5",
		0.126:       "0.13",
		math.NaN():  "NaN",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
	if FormatCoefficient(0.5) != "0.50" || FormatCoefficient(math.NaN()) != "" {
		t.Fatal("FormatCoefficient")
	}
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	err := WritePage(&buf, Page{
		Title:      "Texas Real Estate Market Analysis",
		Options:    []string{"AVG_PRICE", "COL_INDEX"},
		Selected:   "COL_INDEX",
		MapSVG:     template.HTML("<svg id=\"map\"></svg>"),
		HeatmapSVG: template.HTML("<svg id=\"heat\"></svg>"),
		Stats:      SummaryRows(market.Summary{Count: 2, Mean: 1.5}),
		Columns:    []string{"zip", "AVG_PRICE"},
		Preview:    [][]string{{"75001", "350000"}},
	})
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`<option selected>COL_INDEX</option>`, `<svg id="map">`, `<td>75001</td>`, `<th>25%</th>`} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestWriteErrorPage(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePage(&buf, Page{Title: "x", Error: "open data/merge.csv: no such file", MapSVG: "<svg></svg>"}); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Error loading data: open data/merge.csv") {
		t.Fatal("error message missing")
	}
	if strings.Contains(out, "<svg") {
		t.Fatal("error page must not contain charts")
	}
}
