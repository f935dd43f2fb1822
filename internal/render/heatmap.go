package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"zipmarket/internal/market"
)

// HeatmapOptions sizes the correlation panel.
type HeatmapOptions struct {
	Cell        int // pixel size of one matrix cell
	LabelWidth  int // room for row labels on the left
	LabelHeight int // room for rotated column labels at the bottom
	TitleHeight int
	FontSize    float64
}

// DefaultHeatmapOptions returns the dashboard's heatmap sizing.
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{Cell: 56, LabelWidth: 170, LabelHeight: 150, TitleHeight: 40, FontSize: 9}
}

// Heatmap draws m as an annotated grid on a diverging scale centered at zero.
// Every defined cell is labeled with its coefficient to two decimals.
func Heatmap(m *market.CorrMatrix, title string, opts HeatmapOptions) ([]byte, error) {
	n := len(m.Columns)
	width := opts.LabelWidth + n*opts.Cell + 20
	height := opts.TitleHeight + n*opts.Cell + opts.LabelHeight
	r, err := chart.SVG(width, height)
	if err != nil {
		return nil, fmt.Errorf("create svg renderer: %w", err)
	}
	if font, err := chart.GetDefaultFont(); err == nil {
		r.SetFont(font)
	}
	drawTitle(r, title, 10, opts.TitleHeight/2+6)

	scale := CorrelationScale()
	x0, y0 := opts.LabelWidth, opts.TitleHeight
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.Values[i][j]
			fill := scale.At(v)
			x, y := x0+j*opts.Cell, y0+i*opts.Cell
			r.SetFillColor(fill)
			r.SetStrokeColor(borderWhite)
			r.SetStrokeWidth(1)
			r.MoveTo(x, y)
			r.LineTo(x+opts.Cell, y)
			r.LineTo(x+opts.Cell, y+opts.Cell)
			r.LineTo(x, y+opts.Cell)
			r.Close()
			r.FillStroke()

			label := FormatCoefficient(v)
			if label == "" {
				continue
			}
			if luminance(fill) < 0.5 {
				r.SetFontColor(textLight)
			} else {
				r.SetFontColor(textDark)
			}
			r.SetFontSize(opts.FontSize)
			r.Text(label, x+opts.Cell/2-11, y+opts.Cell/2+4)
		}
	}

	r.SetFontColor(textDark)
	r.SetFontSize(opts.FontSize)
	for i, name := range m.Columns {
		label := html.EscapeString(truncate(name, 26))
		r.Text(label, 6, y0+i*opts.Cell+opts.Cell/2+4)

		r.SetTextRotation(math.Pi / 4)
		r.Text(label, x0+i*opts.Cell+opts.Cell/2, y0+n*opts.Cell+12)
		r.ClearTextRotation()
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("write heatmap svg: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
