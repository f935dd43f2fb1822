package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"zipmarket/internal/boundary"
	"zipmarket/internal/market"
)

// MapOptions is the fixed styling of the choropleth panel.
type MapOptions struct {
	Width, Height int
	Margin        chart.Box
	BorderWidth   float64
	BorderColor   drawing.Color
	MissingColor  drawing.Color
	LegendWidth   int
	Box           BBox
}

// DefaultMapOptions matches the dashboard layout: an 800px tall panel with a
// thin white border around every ZIP.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Width:        960,
		Height:       800,
		Margin:       chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		BorderWidth:  0.5,
		BorderColor:  borderWhite,
		MissingColor: missingFill,
		LegendWidth:  90,
		Box:          TexasBBox,
	}
}

// Map is a rendered choropleth and the outcome of the ZIP join.
type Map struct {
	SVG       []byte
	Filled    []string // ZIPs with both a polygon and a value
	Empty     []string // polygons without a value
	Unmatched []string // values without a polygon
	Scale     Diverging
}

// Choropleth fills every boundary polygon by its ZIP's value. The color scale
// is centered at the arithmetic mean of column, the full selected column, so
// the map agrees with the statistics panel even when rows repeat a ZIP or lack
// one. A nil column falls back to the joined values. Polygons without a value
// get MissingColor; values without a polygon are left off the map.
func Choropleth(doc *boundary.Document, values map[string]float64, column []float64, title string, opts MapOptions) (*Map, error) {
	m := &Map{}
	if column == nil {
		column = make([]float64, 0, len(values))
		for _, v := range values {
			column = append(column, v)
		}
	}
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range column {
		if math.IsNaN(v) {
			continue
		}
		min, max = math.Min(min, v), math.Max(max, v)
	}
	mean := market.Mean(column)
	if math.IsNaN(mean) {
		mean, min, max = 0, 0, 0
	}
	m.Scale = MeanCentered(mean, min, max)

	r, err := chart.SVG(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("create svg renderer: %w", err)
	}
	if font, err := chart.GetDefaultFont(); err == nil {
		r.SetFont(font)
	}

	plotW := opts.Width - opts.Margin.Left - opts.Margin.Right - opts.LegendWidth
	plotH := opts.Height - opts.Margin.Top - opts.Margin.Bottom
	frame := NewFrame(TexasCentric(), opts.Box, opts.Margin.Left, opts.Margin.Top, plotW, plotH)

	seen := make(map[string]bool, len(doc.Features))
	for i := range doc.Features {
		f := &doc.Features[i]
		seen[f.ZIP] = true
		fill := opts.MissingColor
		if v, ok := values[f.ZIP]; ok && !math.IsNaN(v) {
			fill = m.Scale.At(v)
			m.Filled = append(m.Filled, f.ZIP)
		} else {
			m.Empty = append(m.Empty, f.ZIP)
		}
		drawFeature(r, frame, f, fill, opts)
	}
	for z := range values {
		if !seen[z] {
			m.Unmatched = append(m.Unmatched, z)
		}
	}
	sort.Strings(m.Filled)
	sort.Strings(m.Empty)
	sort.Strings(m.Unmatched)

	drawTitle(r, title, opts.Margin.Left, opts.Margin.Top/2+6)
	drawColorbar(r, m.Scale, min, max, opts.Width-opts.Margin.Right-opts.LegendWidth+20, opts.Margin.Top+20, 18, plotH-40)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("write map svg: %w", err)
	}
	m.SVG = buf.Bytes()
	return m, nil
}

// drawFeature draws each polygon as one path so holes cut through the shell.
func drawFeature(r chart.Renderer, frame *Frame, f *boundary.Feature, fill drawing.Color, opts MapOptions) {
	for _, poly := range f.Polygons() {
		r.SetFillColor(fill)
		r.SetStrokeColor(opts.BorderColor)
		r.SetStrokeWidth(opts.BorderWidth)
		drawn := false
		for _, ring := range poly {
			if len(ring) < 3 {
				continue
			}
			x, y := frame.Pixel(ring[0].X(), ring[0].Y())
			r.MoveTo(x, y)
			for _, c := range ring[1:] {
				x, y = frame.Pixel(c.X(), c.Y())
				r.LineTo(x, y)
			}
			r.Close()
			drawn = true
		}
		if drawn {
			r.FillStroke()
		}
	}
}

func drawTitle(r chart.Renderer, title string, x, y int) {
	if title == "" {
		return
	}
	r.SetFontColor(textDark)
	r.SetFontSize(16)
	r.Text(html.EscapeString(title), x, y)
}

// drawColorbar stacks small boxes from max (top) to min (bottom) and labels
// the ends and the mean.
func drawColorbar(r chart.Renderer, scale Diverging, min, max float64, x, y, w, h int) {
	const steps = 32
	if h <= 0 {
		return
	}
	step := float64(h) / steps
	for i := 0; i < steps; i++ {
		v := max - (max-min)*(float64(i)+0.5)/steps
		top := y + int(math.Round(float64(i)*step))
		bottom := y + int(math.Round(float64(i+1)*step))
		r.SetFillColor(scale.At(v))
		r.SetStrokeColor(scale.At(v))
		r.SetStrokeWidth(0)
		r.MoveTo(x, top)
		r.LineTo(x+w, top)
		r.LineTo(x+w, bottom)
		r.LineTo(x, bottom)
		r.Close()
		r.FillStroke()
	}

	r.SetFontColor(textDark)
	r.SetFontSize(10)
	r.Text(FormatNumber(max), x+w+4, y+4)
	r.Text(FormatNumber(min), x+w+4, y+h)
	if max > min {
		my := y + int(math.Round(float64(h)*(max-scale.Center)/(max-min)))
		r.Text("μ "+FormatNumber(scale.Center), x+w+4, my+4)
	}
}
