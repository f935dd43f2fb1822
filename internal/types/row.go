package types

// MarketRow is one ZIP code's slice of the merged market dataset.
// Metrics holds every numeric column; NaN marks a missing cell.
type MarketRow struct {
	ZIP     string
	Metrics map[string]float64
	Text    map[string]string
}

// Metric returns the named metric and whether the row carries a value for it.
func (r MarketRow) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	if !ok || v != v { // NaN
		return 0, false
	}
	return v, true
}
