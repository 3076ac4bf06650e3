package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Scores holds the three similarity values for one comparison.
type Scores struct {
	Pearson  float64
	SSIM     float64
	Spearman float64
}

// Compare evaluates a candidate map against the reference map. Both maps are
// min-max normalized first, and every metric is also computed against the
// candidate's pixel-wise complement with the larger signed value kept, which
// compensates for methods with ambiguous polarity conventions.
func Compare(reference, candidate *mat.Dense) Scores {
	ref := Normalize(reference)
	cand := Normalize(candidate)
	neg := Complement(cand)

	refFlat := flatten(ref)
	candFlat := flatten(cand)
	negFlat := flatten(neg)

	spearman := maxSigned(Spearman(candFlat, refFlat), Spearman(negFlat, refFlat))
	ssim := maxSigned(SSIM(candFlat, refFlat), SSIM(negFlat, refFlat))
	pearson := maxSigned(HOGPearson(cand, ref), HOGPearson(neg, ref))

	return Scores{Pearson: pearson, SSIM: ssim, Spearman: spearman}
}

// maxSigned keeps the larger signed value, preferring a real value over NaN
// when only one side degenerates.
func maxSigned(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	case a >= b:
		return a
	default:
		return b
	}
}

// Evaluator accumulates the three running score sequences in the order
// candidates are processed.
type Evaluator struct {
	Pearson  []float64
	SSIM     []float64
	Spearman []float64
}

// Compare scores the candidate against the reference and appends the scores
// to the running sequences.
func (e *Evaluator) Compare(reference, candidate *mat.Dense) Scores {
	scores := Compare(reference, candidate)
	e.Pearson = append(e.Pearson, scores.Pearson)
	e.SSIM = append(e.SSIM, scores.SSIM)
	e.Spearman = append(e.Spearman, scores.Spearman)
	return scores
}

// Len reports the number of comparisons recorded.
func (e *Evaluator) Len() int {
	return len(e.Pearson)
}
