package market

import (
	"math"

	"github.com/montanaflynn/stats"
)

// DefaultCorrelationExclude lists the identifier and non-market columns that
// never take part in the correlation matrix.
var DefaultCorrelationExclude = []string{
	"zip",
	"Unnamed: 0",
	"index",
	"lat",
	"lng",
	"latitude",
	"longitude",
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// At returns the coefficient for the named pair.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m *CorrMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Correlate computes pairwise Pearson coefficients over every numeric column
// of t except those named in exclude. Each pair uses only rows where both
// values are present. A pair with fewer than two such rows, or with a constant
// side, is NaN. The diagonal is always 1.
func Correlate(t *Table, exclude []string) *CorrMatrix {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	m := &CorrMatrix{}
	var cols [][]float64
	for _, name := range t.NumericColumns() {
		if skip[name] {
			continue
		}
		m.Columns = append(m.Columns, name)
		cols = append(cols, t.numeric[name])
	}

	n := len(m.Columns)
	m.Values = make([][]float64, n)
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(cols[i], cols[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(a, b []float64) float64 {
	var x, y stats.Float64Data
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	sx, _ := stats.StandardDeviationPopulation(x)
	sy, _ := stats.StandardDeviationPopulation(y)
	if sx == 0 || sy == 0 {
		return math.NaN()
	}
	r, err := stats.Pearson(x, y)
	if err != nil {
		return math.NaN()
	}
	// clamp float drift so the heatmap scale stays in [-1, 1]
	return math.Max(-1, math.Min(1, r))
}
