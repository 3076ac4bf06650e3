package saliency

import (
	"gonum.org/v1/gonum/mat"

	"argus/internal/nn"
)

// NoiseGenerator implements perturbation saliency in the Greydanus style: a
// Gaussian-masked perturbation sweeps the frame on a coarse grid, the change
// in the model's output scores each center, and the per-center scores are
// spread back over the map with the same Gaussian weighting.
type NoiseGenerator struct {
	network *nn.Network
	radius  int
	blur    bool
	rawDiff bool
}

func NewNoiseGenerator(network *nn.Network, radius int, blur, rawDiff bool) *NoiseGenerator {
	return &NoiseGenerator{network: network, radius: radius, blur: blur, rawDiff: rawDiff}
}

func (g *NoiseGenerator) Generate(state nn.State, action int) (*mat.Dense, error) {
	base, err := g.network.Forward(state)
	if err != nil {
		return nil, err
	}
	target := grayState(state)
	if g.blur {
		target = blurState(state)
	}

	radius := float64(g.radius)
	stride := g.radius
	if stride < 1 {
		stride = 1
	}

	scores := mat.NewDense(state.H, state.W, nil)
	weights := mat.NewDense(state.H, state.W, nil)
	for cy := 0; cy < state.H; cy += stride {
		for cx := 0; cx < state.W; cx += stride {
			perturbed := perturbAt(state, target, cy, cx, radius)
			out, err := g.network.Forward(perturbed)
			if err != nil {
				return nil, err
			}
			var score float64
			if g.rawDiff {
				score = base[action] - out[action]
			} else {
				for i := range base {
					d := base[i] - out[i]
					score += d * d
				}
				score *= 0.5
			}
			for y := 0; y < state.H; y++ {
				for x := 0; x < state.W; x++ {
					m := gaussianWeight(y, x, cy, cx, radius)
					scores.Set(y, x, scores.At(y, x)+score*m)
					weights.Set(y, x, weights.At(y, x)+m)
				}
			}
		}
	}
	for y := 0; y < state.H; y++ {
		for x := 0; x < state.W; x++ {
			if w := weights.At(y, x); w > 0 {
				scores.Set(y, x, scores.At(y, x)/w)
			}
		}
	}
	return scores, nil
}
