package metrics

// SSIM over flattened 1D signals, the way the comparison treats saliency
// maps: a uniform window slides over both signals and the windowed structural
// similarity scores are averaged.
const (
	ssimWindow    = 7
	ssimK1        = 0.01
	ssimK2        = 0.03
	ssimDataRange = 1.0
)

// SSIM computes the mean structural similarity of two signals normalized to
// [0, 1].
func SSIM(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}
	win := ssimWindow
	if win > n {
		win = n
	}

	c1 := (ssimK1 * ssimDataRange) * (ssimK1 * ssimDataRange)
	c2 := (ssimK2 * ssimDataRange) * (ssimK2 * ssimDataRange)

	total := 0.0
	windows := 0
	for start := 0; start+win <= n; start++ {
		mx, my := windowMean(x[start:start+win]), windowMean(y[start:start+win])
		var vx, vy, cov float64
		for i := start; i < start+win; i++ {
			dx := x[i] - mx
			dy := y[i] - my
			vx += dx * dx
			vy += dy * dy
			cov += dx * dy
		}
		norm := float64(win - 1)
		if norm <= 0 {
			norm = 1
		}
		vx /= norm
		vy /= norm
		cov /= norm

		num := (2*mx*my + c1) * (2*cov + c2)
		den := (mx*mx + my*my + c1) * (vx + vy + c2)
		total += num / den
		windows++
	}
	if windows == 0 {
		return 0
	}
	return total / float64(windows)
}

func windowMean(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
