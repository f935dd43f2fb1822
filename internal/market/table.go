package market

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"zipmarket/internal/types"
)

// ErrLoad marks a dataset that is missing, unreadable or malformed.
var ErrLoad = errors.New("load dataset")

// DefaultZIPColumn is the header of the join-key column in the merged dataset.
const DefaultZIPColumn = "zip"

// Kind classifies a column after loading.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindZIP
)

// Table is an immutable in-memory snapshot of the merged market dataset.
// Column order follows the source; the ZIP column is always held as canonical
// strings, every column whose non-empty cells all parse as numbers is numeric.
type Table struct {
	columns []string
	kinds   []Kind
	zipIdx  int
	zips    []string
	cells   [][]string // row-major, raw source text (ZIP canonicalized)
	numeric map[string][]float64
}

// missingTokens are the cell values read as "no value" for numeric columns.
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true, "none": true, "-": true,
}

// NewTable builds a Table from a header and row records. zipColumn must be
// present in the header, and at least one other column must be numeric.
func NewTable(header []string, records [][]string, zipColumn string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: empty header", ErrLoad)
	}
	t := &Table{
		columns: make([]string, len(header)),
		kinds:   make([]Kind, len(header)),
		zipIdx:  -1,
		numeric: make(map[string][]float64),
	}
	for i, h := range header {
		t.columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	dedupeColumns(t.columns)
	for i, name := range t.columns {
		if name == zipColumn {
			t.zipIdx = i
			break
		}
	}
	if t.zipIdx < 0 {
		return nil, fmt.Errorf("%w: no %q column in header", ErrLoad, zipColumn)
	}

	t.cells = make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(header))
		for j := range header {
			if j < len(rec) {
				row[j] = strings.TrimSpace(rec[j])
			}
		}
		row[t.zipIdx] = CanonicalZIP(row[t.zipIdx])
		t.cells = append(t.cells, row)
		t.zips = append(t.zips, row[t.zipIdx])
	}

	numericCount := 0
	for j, name := range t.columns {
		if j == t.zipIdx {
			t.kinds[j] = KindZIP
			continue
		}
		vals, ok := parseNumericColumn(t.cells, j)
		if !ok {
			t.kinds[j] = KindText
			continue
		}
		t.kinds[j] = KindNumeric
		t.numeric[name] = vals
		numericCount++
	}
	if numericCount == 0 {
		return nil, fmt.Errorf("%w: dataset has no numeric columns", ErrLoad)
	}
	return t, nil
}

// parseNumericColumn parses column j. It reports false when any non-missing
// cell is not a number or when every cell is missing.
func parseNumericColumn(cells [][]string, j int) ([]float64, bool) {
	vals := make([]float64, len(cells))
	seen := false
	for i, row := range cells {
		s := row[j]
		if missingTokens[strings.ToLower(s)] {
			vals[i] = math.NaN()
			continue
		}
		v, ok := parseNumber(s)
		if !ok {
			return nil, false
		}
		vals[i] = v
		seen = true
	}
	return vals, seen
}

// thousands matches a number whose commas are all thousands separators.
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseNumber accepts plain floats plus the "$1,234" style the county exports use.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimPrefix(s, "$")
	if strings.Contains(s, ",") {
		if !thousands.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// dedupeColumns renames repeated headers in place the way pandas does: the
// second "price" becomes "price.1", the third "price.2", skipping names that
// already exist.
func dedupeColumns(columns []string) {
	used := make(map[string]bool, len(columns))
	for _, c := range columns {
		used[c] = true
	}
	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		n, dup := seen[c]
		seen[c] = n + 1
		if !dup {
			continue
		}
		name := fmt.Sprintf("%s.%d", c, n)
		for used[name] {
			n++
			name = fmt.Sprintf("%s.%d", c, n)
		}
		seen[c] = n + 1
		used[name] = true
		columns[i] = name
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.cells) }

// Columns returns all column names in source order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// ZIPColumn returns the name of the join-key column.
func (t *Table) ZIPColumn() string { return t.columns[t.zipIdx] }

// ZIPs returns the canonical ZIP of every row in row order.
func (t *Table) ZIPs() []string { return append([]string(nil), t.zips...) }

// Kind returns the classification of the named column.
func (t *Table) Kind(name string) (Kind, bool) {
	for i, c := range t.columns {
		if c == name {
			return t.kinds[i], true
		}
	}
	return KindText, false
}

// NumericColumns returns the numeric column names in source order.
func (t *Table) NumericColumns() []string {
	var out []string
	for i, c := range t.columns {
		if t.kinds[i] == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Column returns the values of a numeric column; missing cells are NaN.
func (t *Table) Column(name string) ([]float64, bool) {
	v, ok := t.numeric[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// ValuesByZIP maps each ZIP to its value in the named numeric column. Rows with
// a missing value or an empty ZIP are left out; a repeated ZIP keeps its first row.
func (t *Table) ValuesByZIP(name string) map[string]float64 {
	col, ok := t.numeric[name]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(col))
	for i, v := range col {
		z := t.zips[i]
		if z == "" || math.IsNaN(v) {
			continue
		}
		if _, dup := out[z]; dup {
			continue
		}
		out[z] = v
	}
	return out
}

// Row returns row i as a MarketRow.
func (t *Table) Row(i int) types.MarketRow {
	r := types.MarketRow{
		ZIP:     t.zips[i],
		Metrics: make(map[string]float64),
		Text:    make(map[string]string),
	}
	for j, c := range t.columns {
		switch t.kinds[j] {
		case KindNumeric:
			r.Metrics[c] = t.numeric[c][i]
		case KindText:
			r.Text[c] = t.cells[i][j]
		}
	}
	return r
}

// Lookup returns the first row carrying the given ZIP.
func (t *Table) Lookup(zip string) (types.MarketRow, bool) {
	zip = CanonicalZIP(zip)
	for i, z := range t.zips {
		if z == zip {
			return t.Row(i), true
		}
	}
	return types.MarketRow{}, false
}

// Head returns up to n rows of raw cells for the data preview.
func (t *Table) Head(n int) [][]string {
	if n > len(t.cells) {
		n = len(t.cells)
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = append([]string(nil), t.cells[i]...)
	}
	return out
}
