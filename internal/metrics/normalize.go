// Package metrics implements the similarity evaluation between an original
// model's saliency map and a comparator's map: Spearman rank correlation,
// structural similarity and a HOG-feature Pearson correlation, each taken as
// the maximum over the candidate and its pixel-wise complement.
package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize min-max scales a map to [0, 1]. A constant map comes back all
// zeros after the min subtraction; no division happens when the range is
// zero.
func Normalize(m *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(m)
	data := out.RawMatrix().Data
	if len(data) == 0 {
		return out
	}
	min := floats.Min(data)
	for i := range data {
		data[i] -= min
	}
	max := floats.Max(data)
	if max != 0 {
		floats.Scale(1/max, data)
	}
	return out
}

// Complement returns 1-m for a map already normalized to [0, 1]. Explanation
// methods disagree on polarity, so every metric is also evaluated against the
// complement and the larger value kept.
func Complement(m *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(m)
	data := out.RawMatrix().Data
	for i := range data {
		data[i] = 1 - data[i]
	}
	return out
}

func flatten(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data
	}
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
