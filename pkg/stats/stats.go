// Package stats provides statistical utility functions for run summaries.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile calculates the p-th percentile (0-100) of values. The input
// does not need to be sorted. Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil)
}
