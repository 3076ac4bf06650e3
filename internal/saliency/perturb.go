package saliency

import (
	"math"

	"argus/internal/nn"
	"argus/internal/segment"
)

// blurSigma is the Gaussian blur strength used when a perturbation
// interpolates toward a blurred copy of the observation.
const blurSigma = 3.0

// grayLevel is the flat value used when a perturbation interpolates toward a
// featureless observation instead of a blurred one.
const grayLevel = 0.5

// blurState blurs every frame of the stack independently.
func blurState(state nn.State) nn.State {
	out := nn.NewState(state.H, state.W, state.C)
	plane := make([]float64, state.H*state.W)
	for c := 0; c < state.C; c++ {
		for y := 0; y < state.H; y++ {
			for x := 0; x < state.W; x++ {
				plane[y*state.W+x] = state.At(y, x, c)
			}
		}
		blurred := segment.GaussianSmooth(plane, state.H, state.W, blurSigma)
		for y := 0; y < state.H; y++ {
			for x := 0; x < state.W; x++ {
				out.Set(y, x, c, blurred[y*state.W+x])
			}
		}
	}
	return out
}

// gaussianWeight is the perturbation mask value at (y, x) for a perturbation
// centered at (cy, cx) with the given radius.
func gaussianWeight(y, x, cy, cx int, radius float64) float64 {
	dy := float64(y - cy)
	dx := float64(x - cx)
	return math.Exp(-(dy*dy + dx*dx) / (2 * radius * radius))
}

// perturbAt blends the state toward the target state under a Gaussian mask
// centered at (cy, cx). Only the region where the mask is non-negligible is
// touched.
func perturbAt(state, target nn.State, cy, cx int, radius float64) nn.State {
	out := state.Clone()
	reach := int(math.Ceil(3 * radius))
	for y := cy - reach; y <= cy+reach; y++ {
		if y < 0 || y >= state.H {
			continue
		}
		for x := cx - reach; x <= cx+reach; x++ {
			if x < 0 || x >= state.W {
				continue
			}
			m := gaussianWeight(y, x, cy, cx, radius)
			for c := 0; c < state.C; c++ {
				v := state.At(y, x, c)*(1-m) + target.At(y, x, c)*m
				out.Set(y, x, c, v)
			}
		}
	}
	return out
}

// grayState returns a featureless observation of the same geometry.
func grayState(state nn.State) nn.State {
	out := nn.NewState(state.H, state.W, state.C)
	for i := range out.Data {
		out.Data[i] = grayLevel
	}
	return out
}
