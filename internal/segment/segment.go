// Package segment provides the superpixel segmentation algorithms the LIME
// explanation method is parameterized with. All three operate on a grayscale
// plane and are fully deterministic.
package segment

import "math"

// Labels assigns every pixel of an HxW plane to a segment id in [0, Count).
type Labels struct {
	H, W  int
	IDs   []int
	Count int
}

// Func is a segmentation function a LIME generator is configured with.
type Func func(plane []float64, h, w int) Labels

// relabel compacts arbitrary ids into the contiguous range [0, Count).
func relabel(ids []int, h, w int) Labels {
	next := 0
	mapping := make(map[int]int)
	out := make([]int, len(ids))
	for i, id := range ids {
		compact, ok := mapping[id]
		if !ok {
			compact = next
			mapping[id] = compact
			next++
		}
		out[i] = compact
	}
	return Labels{H: h, W: w, IDs: out, Count: next}
}

// GaussianSmooth blurs a plane with a separable Gaussian kernel. sigma <= 0
// returns a copy.
func GaussianSmooth(plane []float64, h, w int, sigma float64) []float64 {
	if sigma <= 0 {
		return append([]float64(nil), plane...)
	}
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp := make([]float64, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				xx := clampInt(x+k, 0, w-1)
				acc += plane[y*w+xx] * kernel[k+radius]
			}
			tmp[y*w+x] = acc
		}
	}
	out := make([]float64, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				yy := clampInt(y+k, 0, h-1)
				acc += tmp[yy*w+x] * kernel[k+radius]
			}
			out[y*w+x] = acc
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
