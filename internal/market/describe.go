package market

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics of one numeric column. Fields are
// NaN when the column has too few values to define them.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max for the named numeric column. Missing cells are skipped.
func Describe(t *Table, column string) (Summary, error) {
	col, ok := t.Column(column)
	if !ok {
		return Summary{}, fmt.Errorf("describe: %q is not a numeric column", column)
	}
	data := dropNaN(col)
	s := Summary{
		Column: column,
		Count:  len(data),
		Mean:   math.NaN(),
		Std:    math.NaN(),
		Min:    math.NaN(),
		Q1:     math.NaN(),
		Median: math.NaN(),
		Q3:     math.NaN(),
		Max:    math.NaN(),
	}
	if len(data) == 0 {
		return s, nil
	}

	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	if len(data) > 1 {
		s.Std, _ = stats.StandardDeviationSample(data)
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.50)
	s.Q3 = quantile(sorted, 0.75)
	return s, nil
}

// Mean returns the arithmetic mean of the non-missing values, or NaN.
func Mean(values []float64) float64 {
	data := dropNaN(values)
	if len(data) == 0 {
		return math.NaN()
	}
	m, err := stats.Mean(data)
	if err != nil {
		return math.NaN()
	}
	return m
}

// quantile interpolates linearly between the closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func dropNaN(values []float64) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
