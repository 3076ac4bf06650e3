package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// HOG parameters. The cell size matches the 3x3-pixel cells the comparison
// uses; orientations are unsigned over [0, 180).
const (
	hogCellSize      = 3
	hogOrientations  = 9
	hogCellsPerBlock = 3
	hogClip          = 0.2
)

// HOG converts a map into a histogram-of-oriented-gradients feature vector:
// per-cell orientation histograms weighted by gradient magnitude, then
// block-normalized (L2 with clipping).
func HOG(m *mat.Dense) []float64 {
	h, w := m.Dims()
	if h < 2 || w < 2 {
		return nil
	}

	gx := make([]float64, h*w)
	gy := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, x1 := maxInt(x-1, 0), minInt(x+1, w-1)
			y0, y1 := maxInt(y-1, 0), minInt(y+1, h-1)
			gx[y*w+x] = (m.At(y, x1) - m.At(y, x0)) / float64(x1-x0)
			gy[y*w+x] = (m.At(y1, x) - m.At(y0, x)) / float64(y1-y0)
		}
	}

	cellsY := h / hogCellSize
	cellsX := w / hogCellSize
	hist := make([]float64, cellsY*cellsX*hogOrientations)
	binWidth := 180.0 / hogOrientations
	for y := 0; y < cellsY*hogCellSize; y++ {
		for x := 0; x < cellsX*hogCellSize; x++ {
			dx, dy := gx[y*w+x], gy[y*w+x]
			magnitude := math.Hypot(dx, dy)
			if magnitude == 0 {
				continue
			}
			angle := math.Atan2(dy, dx) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			if angle >= 180 {
				angle -= 180
			}
			bin := int(angle / binWidth)
			if bin >= hogOrientations {
				bin = hogOrientations - 1
			}
			cell := (y/hogCellSize)*cellsX + x/hogCellSize
			hist[cell*hogOrientations+bin] += magnitude
		}
	}

	blocksY := cellsY - hogCellsPerBlock + 1
	blocksX := cellsX - hogCellsPerBlock + 1
	if blocksY <= 0 || blocksX <= 0 {
		return normalizeBlock(hist)
	}
	features := make([]float64, 0, blocksY*blocksX*hogCellsPerBlock*hogCellsPerBlock*hogOrientations)
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := make([]float64, 0, hogCellsPerBlock*hogCellsPerBlock*hogOrientations)
			for cy := by; cy < by+hogCellsPerBlock; cy++ {
				for cx := bx; cx < bx+hogCellsPerBlock; cx++ {
					cell := cy*cellsX + cx
					block = append(block, hist[cell*hogOrientations:(cell+1)*hogOrientations]...)
				}
			}
			features = append(features, normalizeBlock(block)...)
		}
	}
	return features
}

// normalizeBlock applies L2 normalization, clips at hogClip and renormalizes.
func normalizeBlock(block []float64) []float64 {
	out := append([]float64(nil), block...)
	l2Normalize(out)
	clipped := false
	for i, v := range out {
		if v > hogClip {
			out[i] = hogClip
			clipped = true
		}
	}
	if clipped {
		l2Normalize(out)
	}
	return out
}

func l2Normalize(v []float64) {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}

// HOGPearson is the Pearson correlation of the two maps' HOG feature vectors.
func HOGPearson(a, b *mat.Dense) float64 {
	fa, fb := HOG(a), HOG(b)
	if len(fa) == 0 || len(fa) != len(fb) {
		return math.NaN()
	}
	return stat.Correlation(fa, fb, nil)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
