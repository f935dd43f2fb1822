package render

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"zipmarket/internal/market"
)

// PreviewRows is the fixed size of the data preview table.
const PreviewRows = 10

// StatRow is one line of the statistics table.
type StatRow struct {
	Label string
	Value string
}

// Page is everything the dashboard document shows. A page with Error set
// renders only the message.
type Page struct {
	Title      string
	Options    []string
	Selected   string
	MapSVG     template.HTML
	HeatmapSVG template.HTML
	Stats      []StatRow
	Columns    []string
	Preview    [][]string
	Filled     int
	Empty      int
	Unmatched  int
	Error      string
	Generated  time.Time
}

// SummaryRows lays out a Summary in describe() order.
func SummaryRows(s market.Summary) []StatRow {
	return []StatRow{
		{"count", strconv.Itoa(s.Count)},
		{"mean", FormatNumber(s.Mean)},
		{"std", FormatNumber(s.Std)},
		{"min", FormatNumber(s.Min)},
		{"25%", FormatNumber(s.Q1)},
		{"50%", FormatNumber(s.Median)},
		{"75%", FormatNumber(s.Q3)},
		{"max", FormatNumber(s.Max)},
	}
}

// WritePage renders p as a standalone HTML document.
func WritePage(w io.Writer, p Page) error {
	if p.Generated.IsZero() {
		p.Generated = time.Now()
	}
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 240px; padding: 16px; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 16px 32px; }
.error { color: #9b1c1c; background: #fde8e8; padding: 12px; border-radius: 4px; }
.cols { display: flex; gap: 32px; align-items: flex-start; }
table { border-collapse: collapse; font-size: 13px; }
th, td { border-bottom: 1px solid #ddd; padding: 4px 8px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.preview { overflow-x: auto; max-width: 100%; }
footer { color: #888; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
{{- if .Error}}
<main>
<h1>{{.Title}}</h1>
<p class="error">Error loading data: {{.Error}}</p>
</main>
{{- else}}
<aside>
<h2>Map Controls</h2>
<label for="column">Select variable for map coloring</label>
<select id="column" disabled>
{{- range .Options}}
{{if eq . $.Selected}}<option selected>{{.}}</option>{{else}}<option>{{.}}</option>{{end}}
{{- end}}
</select>
<p>{{.Filled}} ZIPs mapped, {{.Empty}} without data, {{.Unmatched}} without a boundary.</p>
</aside>
<main>
<h1>{{.Title}}</h1>
<section>{{.MapSVG}}</section>
<h2>Correlation Heatmap</h2>
<section>{{.HeatmapSVG}}</section>
<h2>Statistics</h2>
<div class="cols">
<div>
<h3>{{.Selected}}</h3>
<table>
{{- range .Stats}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
</div>
<div class="preview">
<h3>Data Preview</h3>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Preview}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
</div>
</div>
<footer>Generated {{.Generated.Format "2006-01-02 15:04:05"}}</footer>
</main>
{{- end}}
</body>
</html>
`))
