package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ranks assigns 1-based ranks with ties receiving the average of the ranks
// they span.
func ranks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[order[k]] = avg
		}
		i = j + 1
	}
	return out
}

// Spearman computes the rank correlation of two equally sized samples. A
// constant sample has no rank variance and yields NaN, matching the
// degenerate-map behavior the records are allowed to carry.
func Spearman(x, y []float64) float64 {
	return stat.Correlation(ranks(x), ranks(y), nil)
}
